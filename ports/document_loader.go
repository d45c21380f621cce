package ports

import "jsonprof/domain/jsonvalue"

// DocumentLoader reads a file into a document tree. Implementations decide
// how the file's format maps onto JSON values.
type DocumentLoader interface {
	LoadFile(path string) (*jsonvalue.Value, error)
}

// DocumentLoaderFunc adapts a plain function to DocumentLoader
type DocumentLoaderFunc func(path string) (*jsonvalue.Value, error)

// LoadFile calls f(path)
func (f DocumentLoaderFunc) LoadFile(path string) (*jsonvalue.Value, error) {
	return f(path)
}
