package identity

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws/arn"
)

// PolicyVersion is the IAM policy language version.
const PolicyVersion = "2012-10-17"

// StringList is an IAM value that may be written as a string or a list.
// Single-element lists marshal as a plain string.
type StringList []string

// MarshalJSON implements json.Marshaler.
func (s StringList) MarshalJSON() ([]byte, error) {
	if len(s) == 1 {
		return json.Marshal(s[0])
	}
	return json.Marshal([]string(s))
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *StringList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var one string
		if err := json.Unmarshal(data, &one); err != nil {
			return err
		}
		*s = StringList{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*s = many
	return nil
}

// Condition maps operator -> condition key -> values.
type Condition map[string]map[string]StringList

// Statement is one IAM policy statement.
type Statement struct {
	Sid       string                `json:"Sid,omitempty"`
	Effect    string                `json:"Effect"`
	Principal map[string]StringList `json:"Principal,omitempty"`
	Action    StringList            `json:"Action"`
	Resource  StringList            `json:"Resource,omitempty"`
	Condition Condition             `json:"Condition,omitempty"`
}

// PolicyDocument is an IAM policy document.
type PolicyDocument struct {
	Version   string      `json:"Version"`
	Statement []Statement `json:"Statement"`
}

// ParsePolicyDocument decodes a policy document and checks its shape.
func ParsePolicyDocument(data []byte) (PolicyDocument, error) {
	var doc PolicyDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return PolicyDocument{}, fmt.Errorf("decode policy document: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return PolicyDocument{}, err
	}
	return doc, nil
}

// Validate checks that every statement has an effect and at least one action.
func (d PolicyDocument) Validate() error {
	if d.Version != PolicyVersion {
		return fmt.Errorf("policy version %q, expected %q", d.Version, PolicyVersion)
	}
	if len(d.Statement) == 0 {
		return fmt.Errorf("policy document has no statements")
	}
	for i, st := range d.Statement {
		if st.Effect != "Allow" && st.Effect != "Deny" {
			return fmt.Errorf("statement %d: invalid effect %q", i, st.Effect)
		}
		if len(st.Action) == 0 {
			return fmt.Errorf("statement %d: no actions", i)
		}
	}
	return nil
}

// JSON renders the document.
func (d PolicyDocument) JSON() (string, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return "", fmt.Errorf("encode policy document: %w", err)
	}
	return string(data), nil
}

// InlinePolicy is a named policy document embedded in a role.
type InlinePolicy struct {
	Name     string
	Document PolicyDocument
}

// AllowStatement builds an Allow statement.
func AllowStatement(actions []string, resources ...string) Statement {
	return Statement{Effect: "Allow", Action: actions, Resource: resources}
}

// ManagedPolicyARN returns the ARN of an AWS managed policy such as
// AmazonEKSClusterPolicy or service-role/AmazonEFSCSIDriverPolicy.
func ManagedPolicyARN(partition, name string) string {
	if partition == "" {
		partition = DefaultPartition
	}
	return arn.ARN{Partition: partition, Service: "iam", AccountID: "aws", Resource: "policy/" + name}.String()
}
