/*
Package index implements the four record-producing stages of the indexing
pipeline: the Files Index Builder (FIB), Bloom-Filter Index Builder (BIB),
Column-Stats Index Builder (CIB), and Record Router (RR), plus the stable
32-bit hash (I6) they all route through.

Each builder is a pure function (or a small set of them) over the domain
types and the capability interfaces — no persistence, no coordination.
pkg/coordinator sequences them: Action Reader -> Rollback/Restore
Normalizer -> {FIB, BIB, CIB} -> RR.
*/
package index
