/*
Package vm executes transactions made of program instructions.

The Executor is a loom.Handler. For every transaction it loads all referenced
accounts once, runs the instructions in order and writes the modified accounts
back. Each program call runs in its own frame, and the frame verifies on exit
that the program only changed what it was allowed to:

  - data and owner of an account change only if the program owns it and the
    account is writable, and an owner change requires zeroed data
  - lamports decrease only on writable accounts owned by the program
  - lamports change only on writable accounts
  - the executable flag never changes
  - the lamport sum over the accounts of the call is conserved

A program calls another program with Host.Invoke. The callee may only see
accounts the caller has, with at most the caller privileges. A signer is
accepted when it signed the caller or when it is the address derived from the
caller program id and one of the seed sets passed to Invoke.
*/
package vm
