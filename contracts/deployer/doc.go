/*
Package deployer implements Deployer contract: a code registry and an atomic
deploy-and-initialize primitive.

Code (NEF and manifest) is uploaded once and referenced by its hash. Deploy
instantiates the code at the address derived from the invoker and a 32-byte
salt and calls the initialization method of the new contract in the same
transaction. Nobody can observe the new address and initialize the contract
first: if initialization fails, the deployment fails too.

The address is the regular Neo contract hash of the transaction sender, NEF
checksum and the instance manifest name. The instance name is the template
manifest name followed by '#' and Base58-encoded RIPEMD-160 of invoker and
salt concatenation, so different salts produce different contracts of the
same code.

# Contract notifications

CodeUploaded notification. This notification is produced when new code is
stored in the registry.

	name: CodeUploaded
	  - name: hash
	    type: Hash256

Deployed notification. This notification is produced when a contract
instance is deployed and initialized.

	name: Deployed
	  - name: invoker
	    type: Hash160
	  - name: contract
	    type: Hash160
	  - name: codeHash
	    type: Hash256
*/
package deployer

/*
Contract storage model.

# Summary
Key-value storage format:
  - 'c' + <code hash> -> std.Serialize(deployerconst.Code)
    uploaded NEF and manifest
  - 's' + RIPEMD-160(<invoker> + <salt>) -> interop.Hash160
    address of the contract deployed with the salt
*/
