package hybrid

import "fmt"

const (
	nodeTFLOPS  = 10.0 // estimated sustained TFLOPS per node
	nodeFPGAW   = 75.0
	nodePhotonW = 2.0
	fabricPbps  = 1.0
	topology    = "Dragonfly+"
)

// ClusterPerformance is the aggregate of a Cluster. Every figure except the
// fabric is linear in the node count.
type ClusterPerformance struct {
	Nodes      int     `json:"num_nodes" yaml:"num_nodes"`
	PFLOPS     float64 `json:"total_pflops" yaml:"total_pflops"`
	PowerKW    float64 `json:"total_power_kw" yaml:"total_power_kw"`
	Efficiency float64 `json:"efficiency_gflops_per_watt" yaml:"efficiency_gflops_per_watt"`
	MemoryTB   float64 `json:"total_memory_tb" yaml:"total_memory_tb"`
	FabricPbps float64 `json:"optical_fabric_pbps" yaml:"optical_fabric_pbps"`
	Topology   string  `json:"network_topology" yaml:"network_topology"`
}

// Benchmark is a workload spread evenly over every node of a Cluster.
type Benchmark struct {
	Workload      TaskType `json:"workload" yaml:"workload"`
	ProblemSize   int      `json:"problem_size" yaml:"problem_size"`
	Nodes         int      `json:"num_nodes" yaml:"num_nodes"`
	ExecutionTime float64  `json:"execution_time_ms" yaml:"execution_time_ms"`
	PFLOPS        float64  `json:"throughput_pflops" yaml:"throughput_pflops"`
	Efficiency    float64  `json:"efficiency" yaml:"efficiency"`
}

// Cluster is a set of identical hybrid nodes.
type Cluster struct {
	nodes []*System
}

// NewCluster builds nodes systems, each configured with opts.
func NewCluster(nodes int, opts ...Option) (*Cluster, error) {
	if nodes < 1 {
		return nil, fmt.Errorf("%w: node count must be positive, got %d", ErrInvalidParameter, nodes)
	}
	c := &Cluster{nodes: make([]*System, nodes)}
	for i := range c.nodes {
		s, err := NewSystem(opts...)
		if err != nil {
			return nil, err
		}
		c.nodes[i] = s
	}
	return c, nil
}

func (c *Cluster) Nodes() int {
	return len(c.nodes)
}

// Node returns node i.
func (c *Cluster) Node(i int) *System {
	return c.nodes[i]
}

// MemoryTB is the DDR plus HBM of every node.
func (c *Cluster) MemoryTB() float64 {
	var gb int
	for _, n := range c.nodes {
		gb += n.DDR + n.HBM
	}
	return float64(gb) / 1024
}

func (c *Cluster) AggregatePerformance() ClusterPerformance {
	n := float64(len(c.nodes))
	pflops := nodeTFLOPS * n / 1000
	kw := (nodeFPGAW + nodePhotonW) * n / 1000
	return ClusterPerformance{
		Nodes:      len(c.nodes),
		PFLOPS:     pflops,
		PowerKW:    kw,
		Efficiency: pflops * 1e6 / (kw * 1000),
		MemoryTB:   c.MemoryTB(),
		FabricPbps: fabricPbps,
		Topology:   topology,
	}
}

// BenchmarkWorkload runs problemSize/nodes on a representative node. Nodes
// run in parallel, so the cluster time is the node time. Efficiency is the
// PFLOPS figure over the node count times the 10 TFLOPS nominal node peak.
func (c *Cluster) BenchmarkWorkload(task TaskType, problemSize int) (Benchmark, error) {
	nodes := len(c.nodes)
	if problemSize < nodes {
		return Benchmark{}, fmt.Errorf("%w: problem size %d smaller than %d nodes", ErrInvalidParameter, problemSize, nodes)
	}
	r, err := c.nodes[0].ExecuteMatrixMultiply(problemSize / nodes)
	if err != nil {
		return Benchmark{}, err
	}
	pflops := r.TFLOPS * float64(nodes) / 1000
	return Benchmark{
		Workload:      task,
		ProblemSize:   problemSize,
		Nodes:         nodes,
		ExecutionTime: r.TotalTime,
		PFLOPS:        pflops,
		Efficiency:    pflops / (float64(nodes) * nodeTFLOPS),
	}, nil
}
