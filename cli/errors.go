package cli

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrorDescribeTable = errors.New("describe table error")
	ErrorOptInputError = errors.New("option input error")
)

// DescribeTableError matches ErrorDescribeTable and unwraps to the SDK error.
type DescribeTableError struct {
	TableName string
	Err       error
}

func (e *DescribeTableError) Error() string {
	return fmt.Sprintf("%s: %s", e.TableName, e.Err)
}

func (e *DescribeTableError) Is(target error) bool {
	return target == ErrorDescribeTable
}

func (e *DescribeTableError) Unwrap() error {
	return e.Err
}
