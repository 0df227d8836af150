/*
Package account implements Account contract, the ledger of IBetYou escrow.

Account contract keeps spendable balances of users and funds escrowed by bets.
Users are identified by their compressed public keys. Balances are credited by
the ledger owner (AddBalance) or by the user with a signed request
(IncreaseBalance). Only the Master contract can move funds into the custody of
a bet and release the custody to the bet winner, so escrowed funds never change
hands outside of the bet state machine.

# Contract notifications

Credit notification. This notification is produced when user balance is
increased by AddBalance or IncreaseBalance.

	Credit:
	  - name: user
	    type: PublicKey
	  - name: amount
	    type: Integer

Debit notification. This notification is produced when user stake is moved
into the custody of a bet.

	Debit:
	  - name: user
	    type: PublicKey
	  - name: amount
	    type: Integer
	  - name: betID
	    type: ByteArray

Payout notification. This notification is produced when bet custody is
released to the winner.

	Payout:
	  - name: betID
	    type: ByteArray
	  - name: winner
	    type: PublicKey
	  - name: amount
	    type: Integer
*/
package account

/*
Contract storage model.

# Summary
Key-value storage format:
 - 'o' -> interop.Hash160
   owner allowed to credit balances and rebind the master
 - 'm' -> interop.Hash160
   Master contract address
 - 'a'<interop.PublicKey> -> std.Serialize(Account)
   balance sheet of the user
 - 'c'<bet ID> -> int
   amount escrowed by the bet

# Accounting
Sum of all balances and all custody values equals sum of all credits.
*/
