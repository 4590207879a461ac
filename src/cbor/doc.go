// Package cbor models the self-describing values exchanged by the node-to-node
// mini-protocols and encodes them canonically.
//
// A Value is one of Integer, Bool, Text, Bytes, Sequence or Mapping. Encode
// always produces the same bytes for the same logical value:
//
//  - integers use the shortest head that holds them,
//  - arrays and maps use definite lengths,
//  - mapping keys are written in canonical order, Integer keys ascending.
//
// Decode accepts exactly one data item and nothing after it.
package cbor
