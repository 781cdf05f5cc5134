// Package standard provides commonly used W3C and semantic web standard IRIs.
//
// These constants are shared by every pipeline stage so the equivalence
// predicate and the canonical type/link predicates stay stable across runs.
// The unification guarantees (idempotent merge and normalization) depend on
// these values never changing between releases.
//
// References:
//   - OWL: https://www.w3.org/TR/owl2-overview/
//   - SKOS: https://www.w3.org/TR/skos-reference/
//   - Dublin Core: https://www.dublincore.org/specifications/dublin-core/dcmi-terms/
//   - PROV-O: https://www.w3.org/TR/prov-o/
//   - VoID: https://www.w3.org/TR/void/
package standard
