package entities

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/schema"
)

// The migration DDL spells word-list foreign keys without the underscore
// GORM's naming strategy would derive from the field name ("wordlist_id",
// not "word_list_id"). These assertions pin the mapped column names to the
// DDL so a renamed field or dropped column tag fails here instead of at the
// first query against a live database.
func TestColumnNamesMatchMigrations(t *testing.T) {
	columns := func(model interface{}) map[string]string {
		s, err := schema.Parse(model, &sync.Map{}, schema.NamingStrategy{})
		require.NoError(t, err)
		out := make(map[string]string, len(s.Fields))
		for _, f := range s.Fields {
			out[f.Name] = f.DBName
		}
		return out
	}

	job := columns(&CorrectionJob{})
	assert.Equal(t, "wordlist_version_id", job["WordListVersionID"])

	shared := columns(&SharedWordList{})
	assert.Equal(t, "wordlist_id", shared["WordListID"])

	// wordlist_versions keeps the derived spelling in the DDL
	version := columns(&WordListVersion{})
	assert.Equal(t, "word_list_id", version["WordListID"])
}
