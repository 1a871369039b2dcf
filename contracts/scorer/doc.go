/*
Package scorer implements Scorer contract: a reputation ledger of a single
community.

Scorer keeps its creator, an ordered list of managers, registered users and
badges. Badges are named scored credentials of some issuer, they are unique by
name and issuer. The creator manages managers, managers manage badges and user
scores, users register and deregister themselves.

Scorer instances are deployed by the Deployer contract (directly or through
ScorerFactory) which passes its own address as deployment data. This address
is used by Upgrade to fetch new code.

# Contract notifications

ScorerInitialized notification. This notification is produced once, when the
Scorer is initialized.

	name: ScorerInitialized
	  - name: creator
	    type: Hash160
	  - name: name
	    type: String
	  - name: description
	    type: String
	  - name: icon
	    type: String
	  - name: badges
	    type: Array

ManagerChanged notification. This notification is produced when the creator
adds or removes a manager. Action is either "add" or "remove".

	name: ManagerChanged
	  - name: sender
	    type: Hash160
	  - name: manager
	    type: Hash160
	  - name: action
	    type: String

UserChanged notification. This notification is produced when a user
registers or deregisters.

	name: UserChanged
	  - name: user
	    type: Hash160
	  - name: action
	    type: String

BadgeAdded notification.

	name: BadgeAdded
	  - name: sender
	    type: Hash160
	  - name: name
	    type: String
	  - name: issuer
	    type: Hash160
	  - name: score
	    type: Integer
	  - name: icon
	    type: String

BadgeRemoved notification.

	name: BadgeRemoved
	  - name: sender
	    type: Hash160
	  - name: name
	    type: String
	  - name: issuer
	    type: Hash160
	  - name: score
	    type: Integer

UserScoreChanged notification.

	name: UserScoreChanged
	  - name: sender
	    type: Hash160
	  - name: user
	    type: Hash160
	  - name: score
	    type: Integer

PolicyChanged notification.

	name: PolicyChanged
	  - name: sender
	    type: Hash160
	  - name: allowZeroScore
	    type: Boolean
	  - name: keepLastManager
	    type: Boolean

Upgraded notification. This notification is produced right before the code
of the contract is replaced.

	name: Upgraded
	  - name: sender
	    type: Hash160
	  - name: codeHash
	    type: Hash256
*/
package scorer

/*
Contract storage model.

Current conventions:
 <addr>: 20-byte script hash
 <name>: UTF-8 badge name

# Summary
Key-value storage format:
 - 'initialized' -> bool
   one-shot initialization flag
 - 'creator' -> interop.Hash160
   creator of the Scorer
 - 'registry' -> interop.Hash160
   code registry (Deployer) the Scorer was deployed from
 - 'meta' -> std.Serialize(scorerconst.Metadata)
 - 'policy' -> std.Serialize(scorerconst.Policy)
 - 'm' -> std.Serialize([]interop.Hash160)
   managers in order of addition
 - 'u' + <addr> -> std.Serialize(bool)
   user activity flag, removed users are kept with false
 - 's' + <addr> -> std.Serialize(int)
   user score
 - 'b' + <addr> + <name> -> std.Serialize(scorerconst.Badge)
   badge by issuer and name

Storage layout is preserved across upgrades.
*/
