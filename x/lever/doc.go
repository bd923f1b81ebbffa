/*
Package lever implements a power switch.

Initialize creates the power account through the system program and
stores its status, SwitchPower toggles it and logs who pulled the lever.
*/
package lever
