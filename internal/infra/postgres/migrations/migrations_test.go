package migrations

import "testing"

// Registration happens at package init; bun derives the migration name from
// the registering file, so this pins both that init succeeds and that the
// file follows the NNNN_label.go naming bun requires.
func TestQuestionPoolsMigrationRegistered(t *testing.T) {
	sorted := Migrations.Sorted()
	if len(sorted) != 1 {
		t.Fatalf("expected exactly one registered migration, got %d", len(sorted))
	}
	if sorted[0].Name != "2025062801" {
		t.Fatalf("unexpected migration name %q", sorted[0].Name)
	}
	if sorted[0].Comment != "create_question_pools" {
		t.Fatalf("unexpected migration comment %q", sorted[0].Comment)
	}
}
