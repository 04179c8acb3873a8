/*
Package ports defines the driven ports (interfaces) of the report pipeline.

These interfaces decouple the pipeline from where runs are stored, so the same
aggregation and rendering code works against run directories, Redis or memory.

# Key Interfaces

  - RunStore: loads the configuration, metadata and history of a run.
  - RunWriter: persists a run, e.g. to snapshot a live simulation into a directory.
  - Locker: serializes renders of one run across goroutines or replicas.
*/
package ports
