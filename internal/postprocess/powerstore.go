package postprocess

import (
	"strings"

	"github.com/nebari-dev/specprune/internal/openapi"
)

// OperationID derives the operation identifier for method on path from the
// number of path segments:
//
//	/volume              get  -> get_all_volumes
//	/volume/{id}         get  -> get_volume_by_id
//	/volume/{id}/clone   post -> volume_clone
func OperationID(path, method string) string {
	components := strings.Split(path, "/")
	resource := ""
	if len(components) > 1 {
		resource = components[1]
	}

	switch len(components) {
	case 3:
		return method + "_" + resource + "_by_id"
	case 4:
		// Actions on a single resource; usually a post or patch.
		return resource + "_" + components[3]
	default:
		return method + "_all_" + resource + "s"
	}
}

// OperationIDs sets operationId on every operation.
type OperationIDs struct{}

func (OperationIDs) Name() string { return "operation-ids" }

func (OperationIDs) Process(doc *openapi.Document) error {
	for _, op := range openapi.Operations(doc.Paths()) {
		op.Object["operationId"] = OperationID(op.Path, op.Method)
	}
	return nil
}

// FlexibleQuery marks every GET operation with a boolean extension.
type FlexibleQuery struct {
	Key string
}

func (FlexibleQuery) Name() string { return "flexible-query" }

func (f FlexibleQuery) Process(doc *openapi.Document) error {
	for _, op := range openapi.Operations(doc.Paths()) {
		if op.Method == "get" {
			op.Object[f.Key] = true
		}
	}
	return nil
}
