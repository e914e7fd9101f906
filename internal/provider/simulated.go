package provider

import (
	"context"
	"fmt"
	"maps"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws/arn"
	"github.com/google/uuid"

	"github.com/imamik/eksgraph/internal/graph"
)

// Property keys the simulator reads when naming resources.
const (
	PropName          = "name"
	PropRoleName      = "roleName"
	PropNodegroupName = "nodegroupName"
	PropAddonName     = "addonName"
	PropPort      = "port"
	PropURL       = "url"
)

const defaultPostgresPort = "5432"

// SimulatorConfig configures a Simulator.
type SimulatorConfig struct {
	Partition string
	Region    string
	AccountID string
	// Namespace seeds the generated identifiers; use the stack name so
	// different stacks get different IDs.
	Namespace string
	// Overrides replace generated attributes per node identifier.
	Overrides map[string]graph.Attributes
}

// Simulator is an in-memory Resource Provider. Identifiers are name-based
// UUIDs, so the same node in the same namespace always gets the same
// attributes, which keeps repeated submissions idempotent.
type Simulator struct {
	cfg SimulatorConfig
	ns  uuid.UUID

	mu          sync.Mutex
	submissions []Request
	state       map[string]graph.Attributes
}

// NewSimulator creates a Simulator.
func NewSimulator(cfg SimulatorConfig) *Simulator {
	if cfg.Partition == "" {
		cfg.Partition = "aws"
	}
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}
	if cfg.AccountID == "" {
		cfg.AccountID = "000000000000"
	}
	return &Simulator{
		cfg:   cfg,
		ns:    uuid.NewSHA1(uuid.NameSpaceURL, []byte("eksgraph://"+cfg.Namespace)),
		state: make(map[string]graph.Attributes),
	}
}

// Submit implements Provider.
func (s *Simulator) Submit(ctx context.Context, req Request) (graph.Attributes, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	attrs := s.attributes(req)
	if override, ok := s.cfg.Overrides[req.ID]; ok {
		maps.Copy(attrs, override)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.submissions = append(s.submissions, req.Clone())
	s.state[req.ID] = maps.Clone(attrs)
	return attrs, nil
}

// Submissions returns every request received, in arrival order.
func (s *Simulator) Submissions() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.submissions))
	copy(out, s.submissions)
	return out
}

// State returns the last attributes assigned to a node.
func (s *Simulator) State(id string) (graph.Attributes, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	attrs, ok := s.state[id]
	return maps.Clone(attrs), ok
}

func (s *Simulator) hex(id string) string {
	return strings.ReplaceAll(uuid.NewSHA1(s.ns, []byte(id)).String(), "-", "")
}

func (s *Simulator) arn(service, resource string, regional bool) string {
	a := arn.ARN{Partition: s.cfg.Partition, Service: service, AccountID: s.cfg.AccountID, Resource: resource}
	if regional {
		a.Region = s.cfg.Region
	}
	return a.String()
}

// nameKey returns the property carrying the physical name of kind.
func nameKey(kind graph.Kind) string {
	switch kind {
	case graph.KindRole, graph.KindTrustBinding:
		return PropRoleName
	case graph.KindWorkerPool:
		return PropNodegroupName
	default:
		return PropName
	}
}

func (s *Simulator) attributes(req Request) graph.Attributes {
	h := s.hex(req.ID)
	name := req.String(nameKey(req.Kind))
	if name == "" {
		name = fmt.Sprintf("%s-%s", req.ID, h[:8])
	}

	switch req.Kind {
	case graph.KindNetwork:
		id := "vpc-" + h[:17]
		return graph.Attributes{graph.AttrID: id, graph.AttrARN: s.arn("ec2", "vpc/"+id, true)}
	case graph.KindSubnet:
		id := "subnet-" + h[:17]
		return graph.Attributes{graph.AttrID: id, graph.AttrARN: s.arn("ec2", "subnet/"+id, true)}
	case graph.KindSecurityScope, graph.KindIngressPoint:
		id := "sg-" + h[:17]
		return graph.Attributes{graph.AttrID: id, graph.AttrARN: s.arn("ec2", "security-group/"+id, true)}
	case graph.KindReachabilityRule:
		return graph.Attributes{graph.AttrID: "sgr-" + h[:17]}
	case graph.KindCluster:
		oidcID := strings.ToUpper(h)
		return graph.Attributes{
			graph.AttrID:              name,
			graph.AttrName:            name,
			graph.AttrARN:             s.arn("eks", "cluster/"+name, true),
			graph.AttrEndpoint:        fmt.Sprintf("https://%s.gr7.%s.eks.amazonaws.com", oidcID, s.cfg.Region),
			graph.AttrIssuerURL:       fmt.Sprintf("https://oidc.eks.%s.amazonaws.com/id/%s", s.cfg.Region, oidcID),
			graph.AttrSecurityGroupID: "sg-" + h[8:25],
		}
	case graph.KindIdentityProvider:
		path := strings.TrimPrefix(req.String(PropURL), "https://")
		if path == "" {
			path = h
		}
		return graph.Attributes{graph.AttrID: path, graph.AttrARN: s.arn("iam", "oidc-provider/"+path, false)}
	case graph.KindRole, graph.KindTrustBinding:
		return graph.Attributes{graph.AttrID: name, graph.AttrName: name, graph.AttrARN: s.arn("iam", "role/"+name, false)}
	case graph.KindWorkerPool:
		return graph.Attributes{graph.AttrID: name, graph.AttrName: name, graph.AttrARN: s.arn("eks", "nodegroup/"+name+"/"+h[:8], true)}
	case graph.KindExtension:
		addon := req.String(PropAddonName)
		if addon == "" {
			addon = name
		}
		return graph.Attributes{graph.AttrID: addon, graph.AttrName: addon, graph.AttrARN: s.arn("eks", "addon/"+addon+"/"+h[:8], true)}
	case graph.KindAccessEntry:
		return graph.Attributes{graph.AttrID: h[:16], graph.AttrARN: s.arn("eks", "access-entry/"+h[:16], true)}
	case graph.KindFilesystem:
		id := "fs-" + h[:17]
		return graph.Attributes{graph.AttrID: id, graph.AttrARN: s.arn("elasticfilesystem", "file-system/"+id, true)}
	case graph.KindAccessPartition:
		id := "fsap-" + h[:17]
		return graph.Attributes{graph.AttrID: id, graph.AttrARN: s.arn("elasticfilesystem", "access-point/"+id, true)}
	case graph.KindSecret:
		return graph.Attributes{graph.AttrID: name, graph.AttrName: name, graph.AttrARN: s.arn("secretsmanager", "secret:"+name+"-"+h[:6], true)}
	case graph.KindDatabase:
		port := req.String(PropPort)
		if port == "" {
			port = defaultPostgresPort
		}
		return graph.Attributes{
			graph.AttrID:       name,
			graph.AttrARN:      s.arn("rds", "cluster:"+name, true),
			graph.AttrEndpoint: fmt.Sprintf("%s.cluster-%s.%s.rds.amazonaws.com", name, h[:12], s.cfg.Region),
			graph.AttrPort:     port,
		}
	default:
		return graph.Attributes{graph.AttrID: strings.ToLower(string(req.Kind)) + "-" + h[:12]}
	}
}
