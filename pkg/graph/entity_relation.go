package graph

// EntityType classifies an extracted entity. The set is closed; extractions
// with any other type are dropped during parsing.
type EntityType string

const (
	EntityParty      EntityType = "party"
	EntityDate       EntityType = "date"
	EntityAmount     EntityType = "amount"
	EntityClause     EntityType = "clause"
	EntityObligation EntityType = "obligation"
	EntityRight      EntityType = "right"
	EntityCondition  EntityType = "condition"
	EntityDocument   EntityType = "document"
	EntitySection    EntityType = "section"
)

// RelationType classifies an extracted relationship. The set is closed;
// extractions with any other type are dropped during parsing.
type RelationType string

const (
	RelationHasObligation  RelationType = "has_obligation"
	RelationHasRight       RelationType = "has_right"
	RelationReferences     RelationType = "references"
	RelationDependsOn      RelationType = "depends_on"
	RelationEffectiveOn    RelationType = "effective_on"
	RelationExpiresOn      RelationType = "expires_on"
	RelationInvolvesAmount RelationType = "involves_amount"
	RelationDefinedIn      RelationType = "defined_in"
	RelationRelatedTo      RelationType = "related_to"
)

// EntityTypes lists every valid entity type.
func EntityTypes() []EntityType {
	return []EntityType{
		EntityParty,
		EntityDate,
		EntityAmount,
		EntityClause,
		EntityObligation,
		EntityRight,
		EntityCondition,
		EntityDocument,
		EntitySection,
	}
}

// RelationTypes lists every valid relationship type.
func RelationTypes() []RelationType {
	return []RelationType{
		RelationHasObligation,
		RelationHasRight,
		RelationReferences,
		RelationDependsOn,
		RelationEffectiveOn,
		RelationExpiresOn,
		RelationInvolvesAmount,
		RelationDefinedIn,
		RelationRelatedTo,
	}
}

// ParseEntityType reports whether s names a valid entity type.
func ParseEntityType(s string) (EntityType, bool) {
	for _, t := range EntityTypes() {
		if s == string(t) {
			return t, true
		}
	}
	return "", false
}

// ParseRelationType reports whether s names a valid relationship type.
func ParseRelationType(s string) (RelationType, bool) {
	for _, t := range RelationTypes() {
		if s == string(t) {
			return t, true
		}
	}
	return "", false
}

// Entity is one raw entity instance extracted from a single chunk.
type Entity struct {
	Type       EntityType     `json:"type"`
	Name       string         `json:"name"`
	Properties map[string]any `json:"properties,omitempty"`
	Confidence float64        `json:"confidence"`
}

// Relationship is one raw relationship instance extracted from a single
// chunk. Source and target are entity names, resolved against merged nodes
// during graph construction.
type Relationship struct {
	Type       RelationType   `json:"type"`
	SourceName string         `json:"sourceName"`
	TargetName string         `json:"targetName"`
	Properties map[string]any `json:"properties,omitempty"`
	Confidence float64        `json:"confidence"`
}

// EntityExtraction is the structured output of one graph-mode sub-call.
type EntityExtraction struct {
	Entities      []Entity       `json:"entities"`
	Relationships []Relationship `json:"relationships"`
}

// Empty reports whether the extraction carries neither entities nor
// relationships.
func (e EntityExtraction) Empty() bool {
	return len(e.Entities) == 0 && len(e.Relationships) == 0
}

// ChunkExtraction ties one extraction to the chunk it came from.
type ChunkExtraction struct {
	ChunkID    string           `json:"chunkId"`
	Extraction EntityExtraction `json:"extraction"`
}

// Node is a deduplicated entity in the knowledge graph, merged from one or
// more raw instances. SourceChunks is the union of contributing chunk IDs and
// Confidence the max across merged instances. IDs are synthetic (n1, n2, ...)
// and only meaningful within one graph build.
type Node struct {
	ID           string         `json:"id"`
	Type         EntityType     `json:"type"`
	Name         string         `json:"name"`
	Properties   map[string]any `json:"properties,omitempty"`
	SourceChunks []string       `json:"sourceChunks"`
	Confidence   float64        `json:"confidence"`
}

// Edge links two merged nodes. Edges are deduplicated by the
// (type, source, target) triple; the first relationship seen wins.
type Edge struct {
	ID          string         `json:"id"`
	Type        RelationType   `json:"type"`
	Source      string         `json:"source"`
	Target      string         `json:"target"`
	Properties  map[string]any `json:"properties,omitempty"`
	SourceChunk string         `json:"sourceChunk"`
	Confidence  float64        `json:"confidence"`
}

// Metadata records the shape of the input a graph was built from.
type Metadata struct {
	DocumentCount   int    `json:"documentCount"`
	ChunkCount      int    `json:"chunkCount"`
	ExtractionModel string `json:"extractionModel"`
}

// KnowledgeGraph is the deduplicated entity/relationship structure built from
// all chunk extractions of one analysis run. It is never mutated after
// construction.
type KnowledgeGraph struct {
	Nodes    []Node   `json:"nodes"`
	Edges    []Edge   `json:"edges"`
	Metadata Metadata `json:"metadata"`
}
