package hcl

import (
	"context"
	"fmt"
	"reflect"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/stepplan/internal/ctxlog"
	"github.com/vk/stepplan/internal/step"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
	"github.com/zclconf/go-cty/cty/gocty"
)

// DefaultBaseOffset is the per-step offset of the classic five-worker run.
const DefaultBaseOffset = 60

// newEvalContext returns the variables and functions scenario attributes
// may use.
func newEvalContext() *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"alphabet_size":  cty.NumberIntVal(int64(step.AlphabetSize)),
			"default_offset": cty.NumberIntVal(DefaultBaseOffset),
		},
		Functions: map[string]function.Function{
			"min":    stdlib.MinFunc,
			"max":    stdlib.MaxFunc,
			"upper":  stdlib.UpperFunc,
			"format": stdlib.FormatFunc,
		},
	}
}

// isExprDefined checks if an HCL expression was actually present in the
// source. The decoder fills omitted optional attributes with zero-width
// placeholder expressions, so a nil check alone is not enough.
func isExprDefined(ctx context.Context, expr hcl.Expression, attrName string) bool {
	logger := ctxlog.FromContext(ctx)

	if expr == nil {
		return false
	}

	exprRange := expr.Range()
	isDefined := exprRange.End.Byte > exprRange.Start.Byte

	logger.Debug("Checking if HCL attribute was explicitly defined.",
		"attribute", attrName,
		"hcl_range", exprRange.String(),
		"is_defined", isDefined,
	)
	return isDefined
}

// decodeExpr evaluates expr and decodes the value into the Go pointer goVal,
// converting between cty types where HCL allows it (e.g. "5" to a number).
func decodeExpr(ctx context.Context, expr hcl.Expression, evalCtx *hcl.EvalContext, goVal any) error {
	logger := ctxlog.FromContext(ctx)

	val, diags := expr.Value(evalCtx)
	if diags.HasErrors() {
		return diags
	}
	if val.IsNull() {
		return fmt.Errorf("value must not be null")
	}

	valPtr := reflect.ValueOf(goVal)
	if valPtr.Kind() != reflect.Ptr {
		return fmt.Errorf("target for decoding must be a pointer, got %T", goVal)
	}

	impliedType, err := gocty.ImpliedType(valPtr.Elem().Interface())
	if err != nil {
		return fmt.Errorf("unsupported target type %T: %w", goVal, err)
	}

	convertedVal, err := convert.Convert(val, impliedType)
	if err != nil {
		return fmt.Errorf("cannot convert %s to required type %s: %w", val.Type().FriendlyName(), impliedType.FriendlyName(), err)
	}
	if !val.Type().Equals(convertedVal.Type()) {
		logger.Debug("Implicitly converted value type.",
			"from", val.Type().FriendlyName(),
			"to", convertedVal.Type().FriendlyName(),
		)
	}

	return gocty.FromCtyValue(convertedVal, goVal)
}
