/*
Package scorerfactory implements ScorerFactory contract which creates Scorer
instances and keeps the directory of them.

Factory is initialized with the hash of Scorer code uploaded to the code
registry (Deployer contract). The registry address is passed to the factory as
deployment data. CreateScorer deploys and initializes a Scorer through the
registry in one transaction, then reads Scorer metadata and stores it in the
directory. The directory contains display data only, it does not own the
scorers: removal from the directory does not destroy the Scorer.

Managers of the factory can be added and removed by the creator and by other
managers. Policy switches control whether only managers can create scorers
and whether the last manager can be removed.

# Contract notifications

FactoryInitialized notification.

	name: FactoryInitialized
	  - name: creator
	    type: Hash160
	  - name: codeHash
	    type: Hash256

ManagerChanged notification. Action is either "add" or "remove".

	name: ManagerChanged
	  - name: caller
	    type: Hash160
	  - name: manager
	    type: Hash160
	  - name: action
	    type: String

ScorerCreated notification. This notification is produced when new Scorer
is deployed and recorded in the directory.

	name: ScorerCreated
	  - name: deployer
	    type: Hash160
	  - name: scorer
	    type: Hash160
	  - name: name
	    type: String
	  - name: description
	    type: String
	  - name: icon
	    type: String

ScorerRemoved notification.

	name: ScorerRemoved
	  - name: caller
	    type: Hash160
	  - name: scorer
	    type: Hash160
	  - name: name
	    type: String
	  - name: description
	    type: String
	  - name: icon
	    type: String

PolicyChanged notification.

	name: PolicyChanged
	  - name: caller
	    type: Hash160
	  - name: managerOnlyCreate
	    type: Boolean
	  - name: keepLastManager
	    type: Boolean
*/
package scorerfactory

/*
Contract storage model.

# Summary
Key-value storage format:
 - 'initialized' -> bool
 - 'creator' -> interop.Hash160
 - 'registry' -> interop.Hash160
   code registry (Deployer) address
 - 'codeHash' -> interop.Hash256
   hash of Scorer code in the registry
 - 'policy' -> std.Serialize(scorerfactoryconst.Policy)
 - 'm' -> std.Serialize([]interop.Hash160)
   managers in order of addition
 - 'd' + <scorer address> -> std.Serialize(scorerconst.Metadata)
   directory entry
*/
