package wire

import (
	"feesim/core/types"
)

// labelNames is the stable label lookup table. Indices are wire identity:
// entries are appended, never reordered or removed.
var labelNames = func() []string {
	all := types.AllLabels()
	names := make([]string, len(all))
	for i, label := range all {
		names[i] = string(label)
	}
	return names
}()

// nodeNames is the stable transition-graph node table the path enumerator
// indexes into. Appended-only, like the label table.
var nodeNames = []string{
	"START",
	"NORMAL_ROUND",
	"LEADER_TIMEOUT",
	"LEADER_APPEAL",
	"VALIDATOR_APPEAL",
	"LEADER_TIMEOUT_APPEAL",
	"END",
}

// LabelNames returns a copy of the label lookup table in index order.
func LabelNames() []string {
	return append([]string(nil), labelNames...)
}

// NodeNames returns a copy of the node lookup table in index order.
func NodeNames() []string {
	return append([]string(nil), nodeNames...)
}

// LabelIndex resolves a label to its table index, or -1 when unknown.
func LabelIndex(label types.RoundLabel) int {
	for i, name := range labelNames {
		if name == string(label) {
			return i
		}
	}
	return -1
}

// LabelAt resolves a table index back to a label.
func LabelAt(index int) (types.RoundLabel, bool) {
	if index < 0 || index >= len(labelNames) {
		return "", false
	}
	return types.RoundLabel(labelNames[index]), true
}

// NodeAt resolves a node index back to its name.
func NodeAt(index int) (string, bool) {
	if index < 0 || index >= len(nodeNames) {
		return "", false
	}
	return nodeNames[index], true
}
