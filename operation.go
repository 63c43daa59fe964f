package unistore

////////////////////////////////////////////////////////////////////////////////
// TYPES

// Operation tags the verb or stream method an error originated from.
type Operation string

////////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	OpCreateDir Operation = "create_dir"
	OpRead      Operation = "read"
	OpWrite     Operation = "write"
	OpStat      Operation = "stat"
	OpDelete    Operation = "delete"
	OpList      Operation = "list"
	OpScan      Operation = "scan"
	OpCopy      Operation = "copy"
	OpBatch     Operation = "batch"
	OpPresign   Operation = "presign"

	OpBlockingCreateDir Operation = "blocking_create_dir"
	OpBlockingRead      Operation = "blocking_read"
	OpBlockingWrite     Operation = "blocking_write"
	OpBlockingStat      Operation = "blocking_stat"
	OpBlockingDelete    Operation = "blocking_delete"
	OpBlockingList      Operation = "blocking_list"
	OpBlockingScan      Operation = "blocking_scan"

	OpReaderRead  Operation = "reader.read"
	OpReaderSeek  Operation = "reader.seek"
	OpReaderNext  Operation = "reader.next"
	OpReaderClose Operation = "reader.close"

	OpWriterWrite  Operation = "writer.write"
	OpWriterAppend Operation = "writer.append"
	OpWriterAbort  Operation = "writer.abort"
	OpWriterClose  Operation = "writer.close"

	OpPagerNext  Operation = "pager.next"
	OpPagerClose Operation = "pager.close"
)

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Blocking returns the blocking-convention tag for a verb, or the tag
// itself when no blocking dual exists.
func (op Operation) Blocking() Operation {
	switch op {
	case OpCreateDir, OpRead, OpWrite, OpStat, OpDelete, OpList, OpScan:
		return "blocking_" + op
	default:
		return op
	}
}
