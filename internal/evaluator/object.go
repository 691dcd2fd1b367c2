package evaluator

type ObjectType string

const (
	NUMBER_OBJ       = "NUMBER"
	STRING_OBJ       = "STRING"
	BOOLEAN_OBJ      = "BOOLEAN"
	ARRAY_OBJ        = "ARRAY"
	OBJECT_OBJ       = "OBJECT"
	FUNCTION_OBJ     = "FUNCTION"
	BUILTIN_OBJ      = "BUILTIN"
	RETURN_VALUE_OBJ = "RETURN_VALUE"
	ERROR_OBJ        = "ERROR"
	NULL_OBJ         = "NULL"
	UNDEFINED_OBJ    = "UNDEFINED"
)

// Object is the closed set of runtime values. Only the types in this package
// implement it.
type Object interface {
	Type() ObjectType
	Inspect() string
	object()
}

// Shared immutable instances.
var (
	NULL      = &Null{}
	UNDEFINED = &Undefined{}
	TRUE      = &Boolean{Value: true}
	FALSE     = &Boolean{Value: false}
)

func nativeBoolToBooleanObject(input bool) *Boolean {
	if input {
		return TRUE
	}
	return FALSE
}

// TypeName is the lower-case name reported by typeof.
func TypeName(obj Object) string {
	switch obj.Type() {
	case NUMBER_OBJ:
		return "number"
	case STRING_OBJ:
		return "string"
	case BOOLEAN_OBJ:
		return "boolean"
	case ARRAY_OBJ:
		return "array"
	case OBJECT_OBJ:
		return "object"
	case FUNCTION_OBJ:
		return "function"
	case BUILTIN_OBJ:
		return "builtin"
	case ERROR_OBJ:
		return "error"
	case NULL_OBJ:
		return "null"
	case RETURN_VALUE_OBJ:
		return TypeName(obj.(*ReturnValue).Value)
	}
	return "undefined"
}
