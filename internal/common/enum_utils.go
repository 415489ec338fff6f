package common

import (
	"fmt"
	"strings"
)

// EnumRegistry provides utilities for managing enum string representations.
type EnumRegistry struct {
	mappings map[string]EnumStringMap
}

// NewEnumRegistry creates a new EnumRegistry instance.
func NewEnumRegistry() *EnumRegistry {
	return &EnumRegistry{
		mappings: make(map[string]EnumStringMap),
	}
}

// RegisterEnum registers an enum type with its string mapping.
func (er *EnumRegistry) RegisterEnum(typeName string, mapping EnumStringMap) {
	er.mappings[typeName] = mapping
}

// FormatEnum formats an enum value for a registered type.
func (er *EnumRegistry) FormatEnum(typeName string, value int) string {
	if mapping, exists := er.mappings[typeName]; exists {
		if str, found := mapping[value]; found {
			return str
		}
	}
	return fmt.Sprintf("unknown_%s(%d)", typeName, value)
}

// AggregationMapping maps reductions to the names used in results and the CLI.
var AggregationMapping = EnumStringMap{
	0:  "min",    // AggMin
	1:  "max",    // AggMax
	2:  "mean",   // AggMean
	3:  "median", // AggMedian
	4:  "sum",    // AggSum
	5:  "var",    // AggVar
	6:  "std",    // AggStd
	7:  "all",    // AggAll
	8:  "any",    // AggAny
	9:  "argmax", // AggArgMax
	10: "argmin", // AggArgMin
	11: "size",   // AggSize
}

// TransformMapping maps shape-preserving transforms to their names.
var TransformMapping = EnumStringMap{
	0: "abs",        // TransformAbs
	1: "cummin",     // TransformCumMin
	2: "cummax",     // TransformCumMax
	3: "cumsum",     // TransformCumSum
	4: "clip",       // TransformClip
	5: "round",      // TransformRound
	6: "copy",       // TransformCopy
	7: "diff",       // TransformDiff
	8: "pct_change", // TransformPctChange
}

// OperatorMapping maps element-wise operators to their symbols.
var OperatorMapping = EnumStringMap{
	0:  "+",  // OpAdd
	1:  "-",  // OpSub
	2:  "*",  // OpMul
	3:  "/",  // OpTrueDiv
	4:  "//", // OpFloorDiv
	5:  "**", // OpPow
	6:  ">",  // OpGt
	7:  "<",  // OpLt
	8:  ">=", // OpGe
	9:  "<=", // OpLe
	10: "!=", // OpNe
	11: "==", // OpEq
}

// OrderDirectionMapping maps order directions to their string representations.
var OrderDirectionMapping = EnumStringMap{
	0: "ASC",  // Ascending
	1: "DESC", // Descending
}

// Default enum registry with common mappings.
var defaultEnumRegistry = func() *EnumRegistry {
	registry := NewEnumRegistry()
	registry.RegisterEnum("Aggregation", AggregationMapping)
	registry.RegisterEnum("Transform", TransformMapping)
	registry.RegisterEnum("Operator", OperatorMapping)
	registry.RegisterEnum("OrderDirection", OrderDirectionMapping)
	return registry
}()

// FormatAggregation formats an aggregation enum value.
func FormatAggregation(agg int) string {
	return defaultEnumRegistry.FormatEnum("Aggregation", agg)
}

// FormatTransform formats a transform enum value.
func FormatTransform(transform int) string {
	return defaultEnumRegistry.FormatEnum("Transform", transform)
}

// FormatOperator formats an operator enum value.
func FormatOperator(op int) string {
	return defaultEnumRegistry.FormatEnum("Operator", op)
}

// FormatOrderDirection formats an order direction enum value.
func FormatOrderDirection(direction int) string {
	return FormatEnum(direction, OrderDirectionMapping)
}

// StringToEnum provides utilities for parsing enum values from strings.
type StringToEnum struct {
	reverseMappings map[string]map[string]int
}

// NewStringToEnum creates a new StringToEnum instance.
func NewStringToEnum() *StringToEnum {
	return &StringToEnum{
		reverseMappings: make(map[string]map[string]int),
	}
}

// RegisterReverseMapping registers a reverse mapping for an enum type.
// Lookups are case-insensitive.
func (ste *StringToEnum) RegisterReverseMapping(typeName string, mapping EnumStringMap) {
	reverseMap := make(map[string]int, len(mapping))
	for value, str := range mapping {
		reverseMap[strings.ToLower(str)] = value
	}
	ste.reverseMappings[typeName] = reverseMap
}

// ParseEnum parses a string to its enum value.
func (ste *StringToEnum) ParseEnum(typeName, str string) (int, bool) {
	reverseMap, exists := ste.reverseMappings[typeName]
	if !exists {
		return 0, false
	}
	value, found := reverseMap[strings.ToLower(strings.TrimSpace(str))]
	return value, found
}

// Default string-to-enum converter with common mappings.
var defaultStringToEnum = func() *StringToEnum {
	converter := NewStringToEnum()
	converter.RegisterReverseMapping("Aggregation", AggregationMapping)
	converter.RegisterReverseMapping("Transform", TransformMapping)
	converter.RegisterReverseMapping("OrderDirection", OrderDirectionMapping)
	return converter
}()

// ParseAggregation parses an aggregation name such as "mean" or "ArgMax".
func ParseAggregation(str string) (int, bool) {
	return defaultStringToEnum.ParseEnum("Aggregation", str)
}

// ParseTransform parses a transform name.
func ParseTransform(str string) (int, bool) {
	return defaultStringToEnum.ParseEnum("Transform", str)
}

// ParseOrderDirection parses "asc" or "desc".
func ParseOrderDirection(str string) (int, bool) {
	return defaultStringToEnum.ParseEnum("OrderDirection", str)
}
