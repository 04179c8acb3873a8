/*
Package domain contains the data model shared by every stage of the report pipeline.

It is kept free of I/O: stores produce a Run, the aggregation stages consume
ChannelValues, and the renderer and composer exchange Artifacts.

# Key Entities

  - Run: configuration, ordered metadata and the step-ordered history of a finished run.
  - StepRecord: the raw channel values recorded at one simulation step.
  - ChannelValue: a closed union (Sample, Scalar, GroupedScalar, Histogram, Opaque).
  - Artifact: a chart file written for one channel.
*/
package domain
