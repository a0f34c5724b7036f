package osm2gpx

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/paulmach/osm"
	"github.com/pkg/errors"
)

// Operator How tag value is compared
type Operator uint16

const (
	OPERATOR_EQUALS = Operator(iota + 1)
	OPERATOR_INCLUDES
)

func (iotaIdx Operator) String() string {
	return [...]string{"=", "~"}[iotaIdx-1]
}

// wordClass Letters of any script with combining marks, decimal digits and connector punctuation (underscore)
const wordClass = `[\p{L}\p{M}\p{Nd}\p{Pc}]`

var (
	// ErrParseExpression is returned when expression does not follow 'name=value' or 'name~value' form
	ErrParseExpression = errors.New("can't parse tag expression")

	expressionRegexp = regexp.MustCompile(`^(?P<name>` + wordClass + `+)(?P<op>[=~])(?P<value>` + wordClass + `+)$`)
)

// TagExpression Predicate over entity tags
type TagExpression struct {
	TagName  string
	TagValue string
	Op       Operator
}

// ParseExpression compiles textual expression.
// Expected forms:
//
//	tourism=camp_site - tag value must be equal to 'camp_site'
//	name~camp - tag value must contain 'camp' (case insensitive)
func ParseExpression(expression string) (*TagExpression, error) {
	caps := expressionRegexp.FindStringSubmatch(expression)
	if caps == nil {
		return nil, errors.Wrapf(ErrParseExpression, "expression '%s'", expression)
	}
	op := OPERATOR_EQUALS
	if caps[expressionRegexp.SubexpIndex("op")] == "~" {
		op = OPERATOR_INCLUDES
	}
	return &TagExpression{
		TagName:  caps[expressionRegexp.SubexpIndex("name")],
		TagValue: caps[expressionRegexp.SubexpIndex("value")],
		Op:       op,
	}, nil
}

// Match checks tags against the expression. Missing tag never matches
func (expr *TagExpression) Match(tags osm.Tags) bool {
	value, ok := findTag(tags, expr.TagName)
	if !ok {
		return false
	}
	switch expr.Op {
	case OPERATOR_EQUALS:
		return value == expr.TagValue
	case OPERATOR_INCLUDES:
		return strings.Contains(strings.ToLower(value), strings.ToLower(expr.TagValue))
	}
	return false
}

// MatchObject checks tags of node, way or relation
func (expr *TagExpression) MatchObject(obj osm.Object) bool {
	return expr.Match(EntityTags(obj))
}

func (expr *TagExpression) String() string {
	return fmt.Sprintf("%s%s%s", expr.TagName, expr.Op, expr.TagValue)
}
