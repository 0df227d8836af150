/*
Package bet implements Bet contract, the state machine of IBetYou escrow.

Bet contract stores every bet created through the Master contract and guards
its life cycle:

	RoleAssignment(1) -> Voting(2) -> Decided(3) -> Withdrawn(4)
	                        |             ^
	                        v             |
	                     Dispute(5) ------+

A bet is created by the bettor, then the counter bettor and two judges join
it. Once all roles are assigned, each judge votes for one of the bettors. Equal
votes decide the bet, different votes put it into dispute which is resolved
by the bet admin. A participant can take only one role in a bet and the admin
can take none. Funds are not stored here, Account contract keeps them in the
custody of the bet.

Only the Master contract can change bets. Read methods are open to anyone.

# Contract notifications

BetCreated notification. This notification is produced when a new bet is
registered.

	BetCreated:
	  - name: betID
	    type: ByteArray
	  - name: bettor
	    type: PublicKey
	  - name: admin
	    type: PublicKey
	  - name: amount
	    type: Integer

RoleAssigned notification. This notification is produced when a participant
joins the bet. Role values are listed in betconst package.

	RoleAssigned:
	  - name: betID
	    type: ByteArray
	  - name: role
	    type: Integer
	  - name: user
	    type: PublicKey

Voted notification. This notification is produced when a judge votes.

	Voted:
	  - name: betID
	    type: ByteArray
	  - name: judge
	    type: PublicKey
	  - name: candidate
	    type: PublicKey

StateChanged notification. This notification is produced on every state
transition except bet creation.

	StateChanged:
	  - name: betID
	    type: ByteArray
	  - name: state
	    type: Integer
*/
package bet

/*
Contract storage model.

# Summary
Key-value storage format:
 - 'o' -> interop.Hash160
   contract owner
 - 'm' -> interop.Hash160
   Master contract address
 - 'b'<bet ID> -> std.Serialize(Bet)
   bet participants, votes and state
*/
