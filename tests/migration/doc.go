/*
Package migration provides framework to test migration of the scorer registry
smart contracts.

Registry contracts keep user scores and the scorer directory. The contracts
are updated on the fly, so data must survive updates without backward
compatibility loss. The package provides services of Neo blockchain and
particular contract needed for testing. Test blockchain environment is based
on dumps made by the dump package, either from remote networks or from test
chains (see DumpContract).
*/
package migration
