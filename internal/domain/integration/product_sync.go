package integration

import (
	"regexp"
	"strings"
)

var (
	groupPrefixPattern  = regexp.MustCompile(`(?i)^([A-Z]+\d+)`)
	categoryCodePattern = regexp.MustCompile(`(?i)^([A-Z]+)`)
)

// DeriveGroupPrefix extracts the product group key from an ERP product name.
// "MB001-polyester cloth 10PCS" yields "MB001"; names without a leading
// letters+digits token fall back to the text before the first '-'. Empty
// names and names starting with '-' yield "".
func DeriveGroupPrefix(name string) string {
	name = strings.TrimSpace(name)
	if m := groupPrefixPattern.FindStringSubmatch(name); m != nil {
		return strings.ToUpper(m[1])
	}
	head, _, _ := strings.Cut(name, "-")
	return strings.ToUpper(strings.TrimSpace(head))
}

// DeriveCategoryCode extracts the category code (leading letter run) from a
// group prefix, returning the prefix unchanged when it has no letters.
func DeriveCategoryCode(prefix string) string {
	if m := categoryCodePattern.FindStringSubmatch(prefix); m != nil {
		return strings.ToUpper(m[1])
	}
	return prefix
}

// PartitionByPrefix groups remote products by derived prefix, keeping the
// first-seen order of prefixes and of products inside each partition.
// Products without a prefix cannot be grouped and are returned as skipped.
func PartitionByPrefix(products []RemoteProduct) (order []string, parts map[string][]RemoteProduct, skipped []RemoteProduct) {
	order = make([]string, 0)
	parts = make(map[string][]RemoteProduct)
	for _, p := range products {
		prefix := DeriveGroupPrefix(p.Name)
		if prefix == "" {
			skipped = append(skipped, p)
			continue
		}
		if _, seen := parts[prefix]; !seen {
			order = append(order, prefix)
		}
		parts[prefix] = append(parts[prefix], p)
	}
	return order, parts, skipped
}

// DistinctMarkNos returns the non-empty feature group numbers referenced by
// products, in first-seen order.
func DistinctMarkNos(products []RemoteProduct) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, p := range products {
		if p.MarkNo == "" {
			continue
		}
		if _, ok := seen[p.MarkNo]; ok {
			continue
		}
		seen[p.MarkNo] = struct{}{}
		out = append(out, p.MarkNo)
	}
	return out
}
