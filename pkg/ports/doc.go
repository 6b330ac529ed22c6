/*
Package ports defines the driven ports (interfaces) used by schemata.

These interfaces decouple validation from storage, so that the same unique
validator works against an in-process index or a shared Redis instance.

# Key Interfaces

  - UniqueIndex: records which values are already taken within a scope.

Implementations can be checked with tests.RunUniqueIndexContract.
*/
package ports
