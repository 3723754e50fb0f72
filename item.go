package ddbclear

import (
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/pkg/errors"
)

const (
	WU_UNIT = 1000 // 1KB
	RU_UNIT = 4000 // 4KB
)

type ItemResult struct {
	Size      int
	ReadUnit  int
	WriteUnit int
}

func itemSizeRoundUp(size int, unitSize int) int {
	remainder := size % unitSize
	quotient := size / unitSize

	if remainder > 0 {
		return (quotient + 1) * unitSize
	}

	return quotient * unitSize
}

func getRuSize(size int) int {
	return itemSizeRoundUp(size, RU_UNIT) / RU_UNIT
}

func getWuSize(size int) int {
	return itemSizeRoundUp(size, WU_UNIT) / WU_UNIT
}

// GetItemSize returns the stored size of item and the units a single read
// or write of it consumes.
func GetItemSize(item Item) (*ItemResult, error) {
	var size int
	for name, av := range item {
		n, err := attributeSize(av)
		if err != nil {
			return nil, errors.Wrapf(err, "attribute %q", name)
		}
		size += len(name) + n
	}

	return &ItemResult{
		Size:      size,
		ReadUnit:  getRuSize(size),
		WriteUnit: getWuSize(size),
	}, nil
}

func attributeSize(av types.AttributeValue) (int, error) {
	var sum int

	switch v := av.(type) {
	case *types.AttributeValueMemberS:
		return len(v.Value), nil
	case *types.AttributeValueMemberN:
		return len(v.Value), nil
	case *types.AttributeValueMemberB:
		return len(v.Value), nil
	case *types.AttributeValueMemberBOOL:
		return 1, nil
	case *types.AttributeValueMemberNULL:
		return 1, nil
	case *types.AttributeValueMemberSS:
		for _, s := range v.Value {
			sum += len(s)
		}
	case *types.AttributeValueMemberNS:
		for _, s := range v.Value {
			sum += len(s)
		}
	case *types.AttributeValueMemberBS:
		for _, b := range v.Value {
			sum += len(b)
		}
	case *types.AttributeValueMemberL:
		for _, e := range v.Value {
			n, err := attributeSize(e)
			if err != nil {
				return 0, err
			}
			sum += n
		}
	case *types.AttributeValueMemberM:
		for k, e := range v.Value {
			n, err := attributeSize(e)
			if err != nil {
				return 0, err
			}
			sum += len(k) + n
		}
	default:
		return 0, errors.Errorf("unexpected type error: %T", av)
	}

	return sum, nil
}
