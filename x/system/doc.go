/*
Package system implements the program that owns every fresh account.

It creates accounts and hands them over to other programs, and it moves
lamports between accounts it owns. Its id is the zero address, which is also
the owner of any account that does not exist yet.
*/
package system
