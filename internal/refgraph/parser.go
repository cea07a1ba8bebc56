package refgraph

import "context"

// ParsedEntity is one program entity discovered by the external
// parser/resolver for a single file.
type ParsedEntity struct {
	Kind             EntityKind
	QualifiedName    string
	RelativeFilePath string
	StartLine        int
	EndLine          int
}

// ParsedRelation is one relationship between two entities, addressed by
// qualified name (resolved against the whole working set, not just the
// file being parsed — a call to an entity declared in another affected
// file is expected and resolved by the Builder after all files are
// parsed).
type ParsedRelation struct {
	Kind             EdgeKind
	FromQualifiedName string
	ToQualifiedName   string
}

// ParseOutput is what a Parser produces for one file.
type ParseOutput struct {
	Entities  []ParsedEntity
	Relations []ParsedRelation
}

// Parser extracts program entities and the relations between them from
// source file content. It is the sole extension point for language
// support: the Builder never inspects file content itself, so adding a
// language means implementing Parser, not touching Builder.
//
// Implementations must return entities and relations in a deterministic
// order for a fixed input; the Builder's own determinism guarantee
// depends on it.
type Parser interface {
	// Parse extracts entities and relations from one file's content.
	// A parse failure must be returned as an error, not a panic; the
	// Builder turns it into a non-fatal ParseFailure diagnostic and
	// continues with the remaining files.
	Parse(ctx context.Context, relativeFilePath string, content []byte) (*ParseOutput, error)
}
