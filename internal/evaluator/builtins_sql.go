package evaluator

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/funvibe/tiny/internal/token"
)

const sqlDriver = "sqlite"

// DatabaseBuiltins returns the SQLite builtins. Each call opens the database
// file, runs one statement and closes it again.
func DatabaseBuiltins() map[string]*Builtin {
	return map[string]*Builtin{
		"sqlExec":  {Name: "sqlExec", Fn: builtinSQLExec},
		"sqlQuery": {Name: "sqlQuery", Fn: builtinSQLQuery},
	}
}

func (e *Evaluator) requireDatabase(name string, pos token.Position) *Error {
	if e.Options.AllowDatabase {
		return nil
	}
	e.logger().Debug("builtin disabled", "name", name, "option", "allowDatabase")
	return newErrorAt(pos, KindPermissionDenied, "%s is disabled (set allowDatabase to enable it)", name)
}

// sqlArgs validates (path, statement, params...) and converts the params.
func sqlArgs(name string, pos token.Position, args []Object) (string, string, []interface{}, *Error) {
	if err := checkArgCount(name, pos, args, 2, -1); err != nil {
		return "", "", nil, err
	}
	path, err := stringArg(name, pos, args, 0)
	if err != nil {
		return "", "", nil, err
	}
	stmt, err := stringArg(name, pos, args, 1)
	if err != nil {
		return "", "", nil, err
	}
	params := make([]interface{}, 0, len(args)-2)
	for i, arg := range args[2:] {
		v, convErr := sqlParam(arg)
		if convErr != nil {
			return "", "", nil, newErrorAt(pos, KindInvalidArgument, "%s: parameter %d: %v", name, i+1, convErr)
		}
		params = append(params, v)
	}
	return path, stmt, params, nil
}

func sqlParam(obj Object) (interface{}, error) {
	switch o := obj.(type) {
	case *Null, *Undefined:
		return nil, nil
	case *Boolean:
		return o.Value, nil
	case *Number:
		if o.IsInt() {
			return int64(o.Value), nil
		}
		return o.Value, nil
	case *String:
		return o.Value, nil
	}
	return nil, fmt.Errorf("cannot bind %s", obj.Type())
}

func builtinSQLExec(e *Evaluator, env *Environment, pos token.Position, args ...Object) Object {
	if err := e.requireDatabase("sqlExec", pos); err != nil {
		return err
	}
	path, stmt, params, argErr := sqlArgs("sqlExec", pos, args)
	if argErr != nil {
		return argErr
	}

	db, err := sql.Open(sqlDriver, path)
	if err != nil {
		return newErrorAt(pos, KindInvalidArgument, "sqlExec: open %s: %v", path, err)
	}
	defer db.Close()

	res, err := db.Exec(stmt, params...)
	if err != nil {
		return newErrorAt(pos, KindInvalidArgument, "sqlExec: %v", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return newErrorAt(pos, KindInvalidArgument, "sqlExec: %v", err)
	}
	e.logger().Debug("sqlExec", "path", path, "rows", n)
	return &Number{Value: float64(n)}
}

// builtinSQLQuery returns one object per row, keyed by column name in
// column order.
func builtinSQLQuery(e *Evaluator, env *Environment, pos token.Position, args ...Object) Object {
	if err := e.requireDatabase("sqlQuery", pos); err != nil {
		return err
	}
	path, query, params, argErr := sqlArgs("sqlQuery", pos, args)
	if argErr != nil {
		return argErr
	}

	db, err := sql.Open(sqlDriver, path)
	if err != nil {
		return newErrorAt(pos, KindInvalidArgument, "sqlQuery: open %s: %v", path, err)
	}
	defer db.Close()

	rows, err := db.Query(query, params...)
	if err != nil {
		return newErrorAt(pos, KindInvalidArgument, "sqlQuery: %v", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return newErrorAt(pos, KindInvalidArgument, "sqlQuery: %v", err)
	}

	result := &Array{}
	for rows.Next() {
		values := make([]interface{}, len(cols))
		ptrs := make([]interface{}, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return newErrorAt(pos, KindInvalidArgument, "sqlQuery: %v", err)
		}
		row := NewMap()
		for i, col := range cols {
			row.SetString(col, sqlValue(values[i]))
		}
		result.Elements = append(result.Elements, row)
	}
	if err := rows.Err(); err != nil {
		return newErrorAt(pos, KindInvalidArgument, "sqlQuery: %v", err)
	}
	return result
}

func sqlValue(v interface{}) Object {
	switch x := v.(type) {
	case nil:
		return NULL
	case int64:
		return &Number{Value: float64(x)}
	case float64:
		return &Number{Value: x}
	case bool:
		return nativeBoolToBooleanObject(x)
	case []byte:
		return &String{Value: string(x)}
	case string:
		return &String{Value: x}
	case time.Time:
		return &String{Value: x.Format(time.RFC3339Nano)}
	}
	return &String{Value: fmt.Sprint(v)}
}
