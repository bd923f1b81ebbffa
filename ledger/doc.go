/*
Package ledger persists accounts.

Every account lives in the "accounts" bucket under its address and is indexed
by owner program. An account that holds zero lamports does not exist, storing
it removes it from the bucket.

Accounts can be queried under "/accounts" (by address, or by address prefix)
and "/accounts/owner" (by owner program id).
*/
package ledger
