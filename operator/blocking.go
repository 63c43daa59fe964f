package operator

import (
	"io"

	// Packages
	unistore "github.com/mutablelogic/go-unistore"
	schema "github.com/mutablelogic/go-unistore/schema"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// BlockingOperator exposes the convenience verbs over the accessor chain's
// blocking calling convention, for callers without a context to plumb
// through. It shares the chain with the Operator which produced it.
type BlockingOperator struct {
	accessor unistore.Accessor
	info     schema.AccessorInfo
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Info returns the chain's merged descriptor.
func (o *BlockingOperator) Info() schema.AccessorInfo {
	return o.info
}

// CreateDir creates a directory at path. Idempotent.
func (o *BlockingOperator) CreateDir(path string) error {
	dir, err := o.dirArg(path, schema.CapCreateDir, unistore.OpBlockingCreateDir)
	if err != nil {
		return err
	}
	_, err = o.accessor.BlockingCreateDir(dir, schema.OpCreateDir{})
	return err
}

// Read returns the whole object at path in memory.
func (o *BlockingOperator) Read(path string) ([]byte, error) {
	key, err := o.fileArg(path, schema.CapRead, unistore.OpBlockingRead)
	if err != nil {
		return nil, err
	}
	rp, reader, err := o.accessor.BlockingRead(key, schema.OpRead{})
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	data := make([]byte, 0, rp.Metadata.ContentLength)
	for {
		chunk, err := reader.Next()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}
		data = append(data, chunk...)
	}
	return data, nil
}

// Reader opens a streaming read session for path.
func (o *BlockingOperator) Reader(path string) (unistore.BlockingReader, error) {
	key, err := o.fileArg(path, schema.CapRead, unistore.OpBlockingRead)
	if err != nil {
		return nil, err
	}
	_, reader, err := o.accessor.BlockingRead(key, schema.OpRead{})
	return reader, err
}

// Write stores data at path, replacing any existing object.
func (o *BlockingOperator) Write(path string, data []byte) error {
	key, err := o.fileArg(path, schema.CapWrite, unistore.OpBlockingWrite)
	if err != nil {
		return err
	}
	_, writer, err := o.accessor.BlockingWrite(key, schema.OpWrite{})
	if err != nil {
		return err
	}
	if _, err := writer.Write(data); err != nil {
		writer.Abort()
		return err
	}
	return writer.Close()
}

// Stat returns the metadata for path; root is a directory without a
// backend round trip.
func (o *BlockingOperator) Stat(path string) (schema.Metadata, error) {
	key, err := normalizePath(path)
	if err != nil {
		return schema.Metadata{}, err
	}
	if isRoot(key) {
		return schema.Metadata{Mode: schema.EntryModeDir}, nil
	}
	if err := o.check(schema.CapStat, unistore.OpBlockingStat); err != nil {
		return schema.Metadata{}, err
	}
	rp, err := o.accessor.BlockingStat(key, schema.OpStat{})
	if err != nil {
		return schema.Metadata{}, err
	}
	return rp.Metadata, nil
}

// Delete removes the object at path. Deleting a missing path succeeds.
func (o *BlockingOperator) Delete(path string) error {
	key, err := o.fileArg(path, schema.CapDelete, unistore.OpBlockingDelete)
	if err != nil {
		return err
	}
	_, err = o.accessor.BlockingDelete(key, schema.OpDelete{})
	return err
}

// List returns the immediate children of path.
func (o *BlockingOperator) List(path string) ([]schema.Entry, error) {
	dir, err := o.dirArg(path, schema.CapList, unistore.OpBlockingList)
	if err != nil {
		return nil, err
	}
	_, pager, err := o.accessor.BlockingList(dir, schema.OpList{})
	if err != nil {
		return nil, err
	}
	return drainBlocking(pager)
}

// Scan returns every entry under path, recursively.
func (o *BlockingOperator) Scan(path string) ([]schema.Entry, error) {
	dir, err := o.dirArg(path, schema.CapScan, unistore.OpBlockingScan)
	if err != nil {
		return nil, err
	}
	_, pager, err := o.accessor.BlockingScan(dir, schema.OpScan{})
	if err != nil {
		return nil, err
	}
	return drainBlocking(pager)
}

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func (o *BlockingOperator) check(cap schema.Capability, op unistore.Operation) error {
	if !o.info.Caps.Has(cap) {
		return unistore.Errf(unistore.KindUnsupported, "%s is not supported by this accessor", op).WithOperation(op)
	}
	return nil
}

func (o *BlockingOperator) fileArg(path string, cap schema.Capability, op unistore.Operation) (string, error) {
	if err := o.check(cap, op); err != nil {
		return "", err
	}
	return normalizePath(path)
}

func (o *BlockingOperator) dirArg(path string, cap schema.Capability, op unistore.Operation) (string, error) {
	if err := o.check(cap, op); err != nil {
		return "", err
	}
	return normalizeDir(path)
}

func drainBlocking(pager unistore.BlockingPager) ([]schema.Entry, error) {
	defer pager.Close()

	var entries []schema.Entry
	for {
		batch, err := pager.Next()
		if err != nil {
			return nil, err
		} else if batch == nil {
			break
		}
		entries = append(entries, batch...)
	}
	return entries, nil
}
