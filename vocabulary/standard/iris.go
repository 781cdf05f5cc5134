package standard

// RDF and RDF Schema IRIs.
const (
	// RdfType asserts class membership for a resource.
	RdfType = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"

	// RdfsLabel provides a human-readable name for a resource.
	RdfsLabel = "http://www.w3.org/2000/01/rdf-schema#label"

	// RdfsComment provides a human-readable description.
	RdfsComment = "http://www.w3.org/2000/01/rdf-schema#comment"

	// RdfsSeeAlso indicates a resource with additional information.
	RdfsSeeAlso = "http://www.w3.org/2000/01/rdf-schema#seeAlso"
)

// OWL (Web Ontology Language) IRIs.
const (
	// OwlSameAs indicates that two URI references refer to the same entity.
	// This is the equivalence predicate used for high-confidence ingredient
	// and recipe mappings.
	OwlSameAs = "http://www.w3.org/2002/07/owl#sameAs"

	// OwlOntology is the class for ontology/dataset description resources.
	OwlOntology = "http://www.w3.org/2002/07/owl#Ontology"

	// OwlEquivalentClass indicates equivalent classes.
	OwlEquivalentClass = "http://www.w3.org/2002/07/owl#equivalentClass"
)

// SKOS (Simple Knowledge Organization System) IRIs.
const (
	// SkosCloseMatch links concepts that are sufficiently similar to be used
	// interchangeably in some applications. Used for medium-confidence
	// fuzzy mappings.
	SkosCloseMatch = "http://www.w3.org/2004/02/skos/core#closeMatch"

	// SkosRelatedMatch links concepts with an associative relation.
	// Used for low-confidence fuzzy mappings.
	SkosRelatedMatch = "http://www.w3.org/2004/02/skos/core#relatedMatch"

	// SkosPrefLabel provides the preferred lexical label for a resource.
	SkosPrefLabel = "http://www.w3.org/2004/02/skos/core#prefLabel"

	// SkosAltLabel provides an alternative lexical label for a resource.
	SkosAltLabel = "http://www.w3.org/2004/02/skos/core#altLabel"
)

// Dublin Core Metadata Terms IRIs.
const (
	// DcCreated is the date of creation of the resource.
	DcCreated = "http://purl.org/dc/terms/created"

	// DcCreator is the entity responsible for making the resource.
	DcCreator = "http://purl.org/dc/terms/creator"

	// DcSource indicates a related resource from which the described
	// resource is derived.
	DcSource = "http://purl.org/dc/terms/source"

	// DcIdentifier provides an unambiguous reference to the resource.
	DcIdentifier = "http://purl.org/dc/terms/identifier"
)

// PROV-O (Provenance Ontology) IRIs.
const (
	// ProvGeneratedAtTime is the completion time of the generation of an entity.
	ProvGeneratedAtTime = "http://www.w3.org/ns/prov#generatedAtTime"

	// ProvWasDerivedFrom links an entity to a source entity it was derived from.
	ProvWasDerivedFrom = "http://www.w3.org/ns/prov#wasDerivedFrom"

	// ProvActivity is the class of things that occur over a period of time
	// and act upon entities.
	ProvActivity = "http://www.w3.org/ns/prov#Activity"
)

// VoID (Vocabulary of Interlinked Datasets) IRIs.
const (
	// VoidDataset is the class for RDF dataset descriptions.
	VoidDataset = "http://rdfs.org/ns/void#Dataset"

	// VoidLinkset is the class for collections of RDF links between datasets.
	VoidLinkset = "http://rdfs.org/ns/void#Linkset"

	// VoidTriples states the number of triples contained in a dataset.
	VoidTriples = "http://rdfs.org/ns/void#triples"

	// VoidSubset links a dataset to a dataset it contains.
	VoidSubset = "http://rdfs.org/ns/void#subset"
)

// XSD datatype IRIs for typed literals.
const (
	XsdString   = "http://www.w3.org/2001/XMLSchema#string"
	XsdInteger  = "http://www.w3.org/2001/XMLSchema#integer"
	XsdDecimal  = "http://www.w3.org/2001/XMLSchema#decimal"
	XsdBoolean  = "http://www.w3.org/2001/XMLSchema#boolean"
	XsdDateTime = "http://www.w3.org/2001/XMLSchema#dateTime"
)
