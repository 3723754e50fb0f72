package ddbclear

import (
	"bufio"
	"encoding/json"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/pkg/errors"
)

// MarshalItemJSON renders item as a plain JSON object, one backup line.
func MarshalItemJSON(item Item) ([]byte, error) {
	parsedJl := map[string]interface{}{}
	if err := attributevalue.UnmarshalMap(item, &parsedJl); err != nil {
		return nil, err
	}

	return json.Marshal(parsedJl)
}

func UnmarshalItemJSON(line []byte) (Item, error) {
	pJson := map[string]interface{}{}
	if err := json.Unmarshal(line, &pJson); err != nil {
		return nil, err
	}

	av, err := attributevalue.MarshalMap(pJson)
	if err != nil {
		return nil, err
	}

	return av, nil
}

// ReadItems reads a JSON Lines stream. Blank lines are skipped.
func ReadItems(r io.Reader) ([]Item, error) {
	reader := bufio.NewReader(r)

	var items []Item
	for line := 1; ; line++ {
		jl, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, err
		}

		if tjl := strings.TrimSpace(jl); tjl != "" {
			item, perr := UnmarshalItemJSON([]byte(tjl))
			if perr != nil {
				return nil, errors.Wrapf(perr, "line %d", line)
			}
			items = append(items, item)
		}

		if err == io.EOF {
			break
		}
	}

	return items, nil
}
