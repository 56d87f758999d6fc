// idgen/snowflake.go
package idgen

import (
	"fmt"
	"sync"

	"github.com/bwmarrin/snowflake"
)

var (
	node     *snowflake.Node
	nodeOnce sync.Once
)

// Init sets the snowflake node used for print references.
func Init(nodeID int64) error {
	n, err := snowflake.NewNode(nodeID)
	if err != nil {
		return fmt.Errorf("init snowflake node %d: %w", nodeID, err)
	}
	node = n
	return nil
}

// PrintRef returns a unique reference stamped on a printed purchase order.
func PrintRef() int64 {
	nodeOnce.Do(func() {
		if node == nil {
			node, _ = snowflake.NewNode(1)
		}
	})
	return node.Generate().Int64()
}
