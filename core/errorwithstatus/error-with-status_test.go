package errorwithstatus

import (
	"errors"
	"fmt"
)

func Example_statusErrorBody() {
	err := MakeBadRequestError(errors.New("Invalid operation")).WithField("operation", "zip")
	fmt.Println(err.Status(), err.Error())
	fmt.Println(err.Body())

	perm := MakeInsufficientPermissionsError("Dataset access required")
	fmt.Println(perm.Status(), perm.Body())

	// Copies don't share their fields
	withMore := perm.WithField("extra", true)
	fmt.Println(len(perm.Fields), len(withMore.Fields))

	var asIface Error = MakeForbiddenError(errors.New("key must start with archives/"))
	fmt.Println(asIface.Status())

	// Output:
	// 400 Invalid operation
	// map[error:Invalid operation operation:zip]
	// 403 map[details:Dataset access required error:insufficient permissions]
	// 1 2
	// 403
}
