package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/go-logr/logr"
	sigsyaml "sigs.k8s.io/yaml"

	"github.com/imamik/eksgraph/internal/config"
	"github.com/imamik/eksgraph/internal/graph"
	"github.com/imamik/eksgraph/internal/provisioning"
	"github.com/imamik/eksgraph/internal/provisioning/compose"
)

// Plan output formats.
const (
	OutputText = "text"
	OutputYAML = "yaml"
	OutputJSON = "json"
)

// PlanOptions are the plan command inputs.
type PlanOptions struct {
	Parameters ParameterSource
	Output     string
}

// PlanDocument is the machine-readable plan.
type PlanDocument struct {
	Stack         string                 `json:"stack"`
	Cluster       string                 `json:"cluster"`
	Nodes         []PlanNode             `json:"nodes"`
	Edges         []graph.Edge           `json:"edges"`
	Order         []string               `json:"order"`
	AcceptedRisks []config.RiskException `json:"acceptedRisks,omitempty"`
	Findings      []PlanFinding          `json:"findings,omitempty"`
}

// PlanNode is one declared node.
type PlanNode struct {
	ID        string            `json:"id"`
	Kind      graph.Kind        `json:"kind"`
	DependsOn []string          `json:"dependsOn,omitempty"`
	Tags      map[string]string `json:"tags,omitempty"`
}

// PlanFinding is a validation finding.
type PlanFinding struct {
	Field    string `json:"field"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

// Plan declares the stack and prints the graph without submitting anything.
func Plan(ctx context.Context, out io.Writer, opts PlanOptions) error {
	if opts.Output == "" {
		opts.Output = OutputText
	}
	switch opts.Output {
	case OutputText, OutputYAML, OutputJSON:
	default:
		return fmt.Errorf("unknown output format %q, expected text, yaml or json", opts.Output)
	}

	params, err := loadParameters(ctx, opts.Parameters)
	if err != nil {
		return err
	}

	composer := &compose.Composer{Observer: provisioning.NewLogObserver(logr.FromContextOrDiscard(ctx))}
	res, err := composer.Plan(ctx, params)
	if err != nil {
		if res != nil && len(res.Findings) > 0 {
			fmt.Fprint(out, renderFindings(newStyles(out), findingsOf(res.Findings)))
		}
		return fmt.Errorf("plan failed: %w", err)
	}

	doc := buildPlanDocument(params, res)
	switch opts.Output {
	case OutputJSON:
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode plan: %w", err)
		}
		_, err = fmt.Fprintln(out, string(data))
		return err
	case OutputYAML:
		data, err := sigsyaml.Marshal(doc)
		if err != nil {
			return fmt.Errorf("failed to encode plan: %w", err)
		}
		_, err = out.Write(data)
		return err
	default:
		_, err := fmt.Fprint(out, renderPlan(newStyles(out), doc))
		return err
	}
}

func buildPlanDocument(params *config.Parameters, res *compose.Result) *PlanDocument {
	doc := &PlanDocument{
		Stack:         params.StackName,
		Cluster:       params.ClusterIdentifier,
		Edges:         res.Graph.Edges(),
		Order:         res.Order,
		AcceptedRisks: res.Risks,
		Findings:      findingsOf(res.Findings),
	}
	for _, id := range res.Order {
		n, ok := res.Graph.Node(id)
		if !ok {
			continue
		}
		doc.Nodes = append(doc.Nodes, PlanNode{
			ID:        id,
			Kind:      n.Kind(),
			DependsOn: res.Graph.Predecessors(id),
			Tags:      n.Tags(),
		})
	}
	return doc
}

func findingsOf(findings []provisioning.ValidationError) []PlanFinding {
	out := make([]PlanFinding, 0, len(findings))
	for _, f := range findings {
		out = append(out, PlanFinding{Field: f.Field, Severity: f.Severity, Message: f.Message})
	}
	return out
}
