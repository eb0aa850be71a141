package catalog

import (
	"errors"
	"fmt"
)

// ErrDataSource matches every *DataSourceError via errors.Is.
var ErrDataSource = errors.New("catalog data source unavailable")

// DataSourceError reports that the catalog could not be read: the store was
// unreachable or rejected the query.
type DataSourceError struct {
	Op  string
	Err error
}

func (e *DataSourceError) Error() string {
	return fmt.Sprintf("catalog: %s: %v", e.Op, e.Err)
}

func (e *DataSourceError) Unwrap() error { return e.Err }

func (e *DataSourceError) Is(target error) bool { return target == ErrDataSource }
