package cluster

// PoolSpec describes one managed worker pool.
type PoolSpec struct {
	Name         string
	InstanceType string
	MinSize      int
	MaxSize      int
	DesiredSize  int
	DiskSizeGiB  int
}

// DefaultPools returns the small general purpose pool and the large pool
// that scales up from zero.
func DefaultPools() []PoolSpec {
	return []PoolSpec{
		{Name: "posit-small", InstanceType: "m5.xlarge", MinSize: 2, MaxSize: 8, DesiredSize: 2, DiskSizeGiB: 50},
		{Name: "posit-large", InstanceType: "m5.8xlarge", MinSize: 0, MaxSize: 4, DesiredSize: 0, DiskSizeGiB: 200},
	}
}
