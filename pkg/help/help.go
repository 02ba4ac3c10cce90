// Package help holds the text shown by fp help.
package help

import (
	"fmt"
	"sort"
	"strings"

	"github.com/thomasrohde/fp/pkg/intrinsic"
)

// Version is reported in the quick reference.
const Version = "v1.0"

// TopicList is the display order of the help topics.
var TopicList = []string{"combinators", "intrinsics", "values", "programs", "diagnostics", "examples"}

// QUICKREF is printed by fp help with no topic.
var QUICKREF = `FP ` + Version + ` - Backus FP combinator evaluator

USAGE
  fp run <file.yaml> [--json] [--pretty] [--trace] [--verbose] [--max-steps N]
  fp run -e <function> <value>
  fp check <file.yaml> [--pretty]
  fp fmt <file.yaml>
  fp help [topic|index]
  fp config

Defaults for --max-steps, --pretty and --json are read from .fp.yaml,
then ~/.fp/config.yaml. FP_LOG_LEVEL sets the log level.

COMBINATORS
  f @ g          composition          [f, g]        construction
  p -> f; g      conditional          &f            apply to all
  %x             constant             (while p f)   loop
  !f             right insert         |f            balanced insert
  n, -n          selector

TOPICS
  ` + strings.Join(TopicList, ", ") + `

Run 'fp help <topic>' for details, 'fp help index' for all intrinsics.
`

// Topics maps a topic name to its text.
var Topics = map[string]string{
	"combinators": `COMBINATORS

Every function takes one value and returns one value.

  f @ g         apply g, then f to its result
  [f1, ..., fn] apply each fi to the same argument; <r1 ... rn>
                any ? result makes the whole construction ?
  p -> f; g     apply p; T selects f, F selects g, anything else is ?
  &f            apply f to each element of a list; <> stays <>
  %x            ignore the argument and return x (? stays ?)
  (while p f)   apply f while p holds
  !f            right insert: !f:<x1 x2 x3> = f:<x1, f:<x2, x3>>
  |f            balanced insert: split, reduce each half, combine
                the second half takes the extra element
  n             select the nth element; negative counts from the end

Insert over <> yields the operator's identity:
  + -  -> 0      * /  -> 1      and -> T      or xor -> F
any other operator yields ?.

Operators + - * keep two integers integer. / always yields a float:
  / : <7 2> is 3.5 and / : <6 2> is the float 3.
  Use div for integer division.
`,

	"intrinsics": `INTRINSICS

Lists    length id out hd first tl last front tlr iota pick
         distl distr apndl apndr trans reverse rotl rotr concat
         pair split
Math     sin cos tan asin acos atan exp log mod div
Logic    atom null eq and or xor not
Ops      + - * / < > <= >= = !=

Intrinsics never fail: bad input yields ?.
Run 'fp help index' for the full list.
`,

	"values": `VALUES

  1, -7          integers (64 bit)
  2.5            floats, printed with 9 significant digits
  T, F           booleans
  <1 <2 3>>      lists; <> is the empty list
  ?              undefined: the result of any failed application

+ - * stay integer unless an operand is a float. / always yields a float.
= and != compare structure; 1 and 1.0 are equal.
`,

	"programs": `PROGRAMS

Programs are YAML documents:

  define:
    sum: {rinsert: "+"}
    avg: {compose: ["/", {construct: [sum, length]}]}
  apply:
    - {fn: avg, to: [1, 2, 3]}

Functions: a name, an operator, an integer selector, or one of
  {compose: [f, g, ...]}  {construct: [...]}  {cond: [p, f, g]}
  {all: f}  {const: x}  {while: [p, f]}  {rinsert: f}  {binsert: f}
  {select: n}  {call: name}  {op: "+"}
Values: YAML numbers and booleans, T, F, "?", <> and sequences.
Quote "?", "-", "*" and other YAML indicators.
`,

	"diagnostics": `DIAGNOSTICS

Reasons a value is ? (reported with --verbose):
  E_TYPE        wrong kind of argument
  E_MALFORMED   list of the wrong shape
  E_DOMAIN      division by zero, result outside the reals
  E_INDEX       selector or pick out of range
  E_UNBOUND     call to an undefined name

Errors that stop a run:
  E_DECODE      program file could not be decoded
  E_DEFINE      definition of a builtin
  E_AST         corrupt function tree
  E_BUDGET      --max-steps or call depth exceeded
  E_INTERRUPTED run cancelled
  E_IO          file could not be read
`,

	"examples": `EXAMPLES

Inner product:
  ip: {compose: [{rinsert: "+"}, {all: "*"}, trans]}
  {fn: ip, to: [[1, 2, 3], [6, 5, 4]]}            -> 28

Matrix multiply:
  mm: {compose: [{all: {all: ip}}, {all: distl}, distr, {construct: [1, {compose: [trans, 2]}]}]}

Factorial:
  fact: {cond: [{compose: [eq, {construct: [id, {const: 0}]}]},
                {const: 1},
                {compose: ["*", {construct: [id, {compose: [fact, "-", {construct: [id, {const: 1}]}]}]}]}]}
`,
}

// MatchTopic resolves an exact topic name or a unique prefix.
func MatchTopic(query string) (string, string, error) {
	if content, ok := Topics[query]; ok {
		return query, content, nil
	}
	var matches []string
	if query != "" {
		for _, name := range TopicList {
			if strings.HasPrefix(name, query) {
				matches = append(matches, name)
			}
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], Topics[matches[0]], nil
	case 0:
		return "", "", fmt.Errorf("unknown help topic %q", query)
	}
	return "", "", fmt.Errorf("ambiguous help topic %q: %s", query, strings.Join(matches, ", "))
}

// IntrinsicIndex lists every registered intrinsic, grouped by token so
// aliases share a line.
func IntrinsicIndex() string {
	reg := intrinsic.Default()
	byToken := make(map[intrinsic.Token][]string)
	for _, name := range reg.Names() {
		fn := reg.Get(name)
		byToken[fn.Token] = append(byToken[fn.Token], name)
	}
	lines := make([]string, 0, len(byToken))
	for _, names := range byToken {
		sort.Strings(names)
		lines = append(lines, "  "+strings.Join(names, " / "))
	}
	sort.Strings(lines)

	var b strings.Builder
	b.WriteString("INTRINSICS\n\n")
	for _, line := range lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "\nTotal: %d functions\n", len(reg.Names()))
	return b.String()
}
