package uid

import (
	"hash/fnv"
	"os"

	"github.com/bwmarrin/snowflake"
)

// Snowflake generates time-ordered int64 IDs that are safe to use as
// primary keys across several running instances.
type Snowflake struct {
	node *snowflake.Node
}

// NewSnowflake builds a generator for the given node number (0-1023).
// A negative node derives one from the hostname.
func NewSnowflake(node int64) (*Snowflake, error) {
	if node < 0 {
		node = hostNode()
	}

	n, err := snowflake.NewNode(node)
	if err != nil {
		return nil, err
	}

	return &Snowflake{node: n}, nil
}

func (s *Snowflake) Generate() int64 {
	return s.node.Generate().Int64()
}

func hostNode() int64 {
	name, err := os.Hostname()
	if err != nil || name == "" {
		return 0
	}

	h := fnv.New32a()
	_, _ = h.Write([]byte(name))

	return int64(h.Sum32() % 1024)
}
