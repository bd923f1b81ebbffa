/*
Package escrow implements a time locked token swap.

The initializer deposits tokens into a temporary holding account and hands
that account over to a keyless authority derived from the escrow program id
and the "escrow" seed. The escrow record stores what the initializer wants in
return and the window in which a taker may complete the swap:

	unlock  = slot at initialization + 100
	timeout = unlock + 1000

A taker holding the expected tokens calls Exchange while
unlock <= slot <= timeout. In a single transaction the expected tokens go to
the initializer, the deposit goes to the taker, and both the holding account
and the record are closed with their lamports returned to the initializer.

The initializer may Cancel at any time to get the deposit back, or
ResetTimeLock to restart the window from the current slot.

Only this program can sign for the derived authority. It proves it by
passing the authority seeds to every token call moving the deposit.
*/
package escrow
