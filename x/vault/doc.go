/*
Package vault keeps lamports for a user in an account at an address
derived from the vault program and the user.

Anyone may deposit through the system program. Only the initializer can
withdraw, and the vault never drops below its rent exempt balance.
*/
package vault
