/*
Package master implements Master contract, the entry point of IBetYou escrow.

Master contract routes user calls to Bet contract and moves funds in Account
contract as a side effect of bet transitions. All the calls of one operation
are executed in the same transaction, so a failed debit reverts the bet
transition and vice versa. The contract has no business state of its own, it
only keeps addresses of Account and Bet contracts.

Acting users are authenticated by the transaction witness of their public key.
Votes and dispute resolution can also be authorized by a secp256r1 signature
of the serialized [tag, master address, betID, candidate] array, so a relay
account can submit them on behalf of judges and admins. Signed payloads have
no nonce.

# Contract notifications

Master contract does not produce notifications. See Account and Bet contracts.
*/
package master

/*
Contract storage model.

# Summary
Key-value storage format:
 - 'o' -> interop.Hash160
   contract owner
 - 'a' -> interop.Hash160
   Account contract address
 - 'b' -> interop.Hash160
   Bet contract address
*/
