package employee

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/aanand-mishra/employees-api/internal/types"
)

// documentVersion is written into every stored document.
const documentVersion = 1

// document is the stored form of the collection:
//
//	{"version":1,"employees":[{...},{...}]}
type document struct {
	Version   int              `json:"version"`
	Employees []types.Employee `json:"employees"`
}

func encode(employees []types.Employee) ([]byte, error) {
	if employees == nil {
		employees = []types.Employee{}
	}
	return json.Marshal(document{Version: documentVersion, Employees: employees})
}

// decode accepts the versioned document and, for collections written
// before versioning, a bare JSON array of records.
func decode(raw []byte) ([]types.Employee, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty document")
	}

	if trimmed[0] == '[' {
		var employees []types.Employee
		if err := json.Unmarshal(trimmed, &employees); err != nil {
			return nil, fmt.Errorf("decode legacy array: %w", err)
		}
		return employees, nil
	}

	var doc document
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	if doc.Version != documentVersion {
		return nil, fmt.Errorf("unsupported document version %d", doc.Version)
	}
	return doc.Employees, nil
}
