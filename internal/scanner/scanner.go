package scanner

import (
	"context"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/pterm/pterm"

	"github.com/sgdash/sgdash/internal/classify"
	"github.com/sgdash/sgdash/internal/models"
	"github.com/sgdash/sgdash/internal/ui"
)

// SecurityGroupsAPI is the one EC2 call the scanner needs, kept narrow so
// tests can fake it.
type SecurityGroupsAPI interface {
	DescribeSecurityGroups(ctx context.Context, params *ec2.DescribeSecurityGroupsInput, optFns ...func(*ec2.Options)) (*ec2.DescribeSecurityGroupsOutput, error)
}

type Scanner struct {
	Client SecurityGroupsAPI
	Region string
}

func New(client SecurityGroupsAPI, region string) *Scanner {
	return &Scanner{Client: client, Region: region}
}

// Scan walks every security group in the region and emits one classified rule
// per ingress permission reachable from the public internet. A permission
// open to several public ranges yields one rule per range, matching how the
// rules read in the console.
func (s *Scanner) Scan(ctx context.Context, spinner *pterm.SpinnerPrinter) ([]models.Rule, error) {
	var rules []models.Rule

	ui.UpdateSpinner(spinner, fmt.Sprintf("Fetching security groups in %s...", s.Region))

	var nextToken *string
	groups := 0
	for {
		result, err := s.Client.DescribeSecurityGroups(ctx, &ec2.DescribeSecurityGroupsInput{
			NextToken: nextToken,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to describe security groups: %w", err)
		}

		for _, sg := range result.SecurityGroups {
			groups++
			ui.UpdateSpinner(spinner, fmt.Sprintf("Checking %s (%d groups seen)...", aws.ToString(sg.GroupId), groups))

			for _, perm := range sg.IpPermissions {
				for _, openTo := range publicRanges(perm) {
					rule := models.Rule{
						SecurityGroupName: aws.ToString(sg.GroupName),
						SecurityGroupID:   aws.ToString(sg.GroupId),
						Protocol:          protocolLabel(perm),
						PortRange:         portRangeLabel(perm),
						OpenTo:            openTo,
					}
					rule.Risk = classify.Classify(rule.PortRange)
					rules = append(rules, rule)
				}
			}
		}

		if result.NextToken == nil {
			break
		}
		nextToken = result.NextToken
	}

	return rules, nil
}

// publicRanges returns the CIDRs of a permission that cover the whole
// internet, IPv4 and IPv6.
func publicRanges(perm types.IpPermission) []string {
	var open []string
	for _, ipRange := range perm.IpRanges {
		if aws.ToString(ipRange.CidrIp) == "0.0.0.0/0" {
			open = append(open, "0.0.0.0/0")
		}
	}
	for _, ip6Range := range perm.Ipv6Ranges {
		if aws.ToString(ip6Range.CidrIpv6) == "::/0" {
			open = append(open, "::/0")
		}
	}
	return open
}

// portRangeLabel renders a permission's port span the way the dashboard
// classifies and displays it: a bare number for single ports, "from-to" for
// spans, "all" when the permission has no port constraint.
func portRangeLabel(perm types.IpPermission) string {
	if perm.FromPort == nil || perm.ToPort == nil {
		return "all"
	}
	from := aws.ToInt32(perm.FromPort)
	to := aws.ToInt32(perm.ToPort)
	if from == to {
		return strconv.Itoa(int(from))
	}
	return fmt.Sprintf("%d-%d", from, to)
}

func protocolLabel(perm types.IpPermission) string {
	proto := aws.ToString(perm.IpProtocol)
	if proto == "" || proto == "-1" {
		return "all"
	}
	return proto
}
