/*
Package loom defines the interfaces shared by the account host and the
programs it runs: storage, transactions, handlers, accounts, instructions and
the program invocation contract.

All durable state lives in accounts. A program never owns storage of its
own; it is handed the accounts an instruction names, mutates them in place
and asks other programs to act through Host.Invoke. Authority over an
address without a private key is expressed with program derived addresses,
see FindProgramAddress.
*/
package loom
