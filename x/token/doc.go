/*
Package token implements a fungible token program.

A mint defines a token and the authority allowed to create new units of it.
Token accounts hold a balance of a single mint on behalf of an owner. Both are
accounts owned by this program, created empty through the system program and
then initialized here.

Token accounts are transferable: SetAuthority hands the account over to a new
owner, which may be a program derived address. The escrow program relies on
this to lock deposits.
*/
package token
