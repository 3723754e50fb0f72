package ddbclear

const (
	// BATCH_WRITE_LIMIT_PER_REQ is the most write requests DynamoDB accepts
	// in one BatchWriteItem call.
	BATCH_WRITE_LIMIT_PER_REQ = 25
)

// partition splits keys into contiguous batches of at most size keys. The
// last batch holds the remainder and is never empty.
func partition(keys []Key, size int) [][]Key {
	if size < 1 {
		size = BATCH_WRITE_LIMIT_PER_REQ
	}

	batches := make([][]Key, 0, batchCount(len(keys), size))
	for start := 0; start < len(keys); start += size {
		end := start + size
		if end > len(keys) {
			end = len(keys)
		}
		batches = append(batches, keys[start:end:end])
	}

	return batches
}

// batchCount is ceil(n / size).
func batchCount(n, size int) int {
	if n <= 0 {
		return 0
	}

	return (n + size - 1) / size
}
