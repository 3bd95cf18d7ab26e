package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVExporterRender(t *testing.T) {
	data := Dataset{
		Headers: []string{"rang", "eleve", "moyenne"},
		Rows: []map[string]string{
			{"rang": "1", "eleve": "Aïssatou Diop", "moyenne": "15,25"},
			{"rang": "2", "eleve": "Moussa", "moyenne": ""},
		},
	}
	out, err := NewCSVExporter(0).Render(data)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, utf8BOM))
	assert.Equal(t, "rang;eleve;moyenne\n1;Aïssatou Diop;15,25\n2;Moussa;\n", string(out[len(utf8BOM):]))

	_, err = NewCSVExporter(',').Render(Dataset{})
	assert.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	doc := Document{
		Title:  "Bulletin de notes",
		Fields: []Field{{Label: "Élève", Value: "Aïssatou Diop"}, {Label: "Classe", Value: "6e A"}},
		Table: Dataset{
			Headers: []string{"Matière", "Coef.", "Moyenne"},
			Rows:    []map[string]string{{"Matière": "Mathématiques", "Coef.": "4", "Moyenne": "15.00"}},
		},
		Summary: []Field{{Label: "Moyenne générale", Value: "15.00"}},
		Note:    "Bulletin en préparation",
	}
	out, err := NewPDFExporter().Render(doc)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))

	_, err = NewPDFExporter().Render(Document{})
	assert.Error(t, err)
}
