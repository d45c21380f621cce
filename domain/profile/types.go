package profile

// NodeType is the classification recorded on every StatsNode
type NodeType string

const (
	TypeObject  NodeType = "object"
	TypeArray   NodeType = "array"
	TypeNumber  NodeType = "number"
	TypeString  NodeType = "string"
	TypeBoolean NodeType = "boolean"
	TypeNull    NodeType = "null"
	TypeUnknown NodeType = "unknown"
)

// SampleLimit is how many leading array elements are analyzed recursively
const SampleLimit = 5

// StatsNode is one node of the statistics tree, mirroring the shape of the
// analyzed document. Which fields are meaningful depends on Type.
type StatsNode struct {
	Type NodeType

	// object
	Keys       []string
	KeyCount   int
	Properties []Property

	// array (Length is also the rune count of a string)
	Length         int
	Numeric        *NumericSummary
	Anomalies      []Anomaly
	SampleElements []*StatsNode

	// number and boolean
	Value interface{}

	// string
	PossibleDate bool

	// Truncated is set when the depth limit cut analysis short at this node
	Truncated bool
}

// Property is one classified object member
type Property struct {
	Key  string
	Node *StatsNode
}

// NumericSummary holds the statistics of an all-numeric array
type NumericSummary struct {
	Min    float64
	Max    float64
	Mean   float64
	Median float64
	StdDev *float64 // population standard deviation, nil for single-element arrays
}

// Anomaly is an array element whose Z-score exceeds the configured threshold
type Anomaly struct {
	Index  int
	Value  float64
	ZScore float64
	Path   string
	PValue float64
}

// Boundary is the numeric summary of one array, addressed by its path
type Boundary struct {
	Path   string
	Min    float64
	Max    float64
	Mean   float64
	Median float64
	StdDev *float64
}

// Boundaries is an ordered path -> Boundary mapping
type Boundaries []Boundary

// Lookup finds the boundary recorded for path
func (b Boundaries) Lookup(path string) (Boundary, bool) {
	for _, boundary := range b {
		if boundary.Path == path {
			return boundary, true
		}
	}
	return Boundary{}, false
}

// Property looks up a classified object member by key
func (n *StatsNode) Property(key string) (*StatsNode, bool) {
	if n == nil {
		return nil, false
	}
	for _, p := range n.Properties {
		if p.Key == key {
			return p.Node, true
		}
	}
	return nil, false
}
