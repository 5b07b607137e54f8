package database

import (
	"strconv"
	"strings"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// LikePattern build pattern cho ILIKE substring match, escape wildcard của user input
func LikePattern(search string) string {
	return "%" + likeEscaper.Replace(strings.TrimSpace(search)) + "%"
}

// Where gom điều kiện và args, tự đánh số placeholder $n
type Where struct {
	conds []string
	args  []interface{}
}

// Add thêm điều kiện, "?" trong cond được thay bằng $n
func (w *Where) Add(cond string, arg interface{}) {
	w.args = append(w.args, arg)
	w.conds = append(w.conds, strings.Replace(cond, "?", placeholder(len(w.args)), 1))
}

// AddSame thêm điều kiện dùng cùng một arg cho mọi "?" (VD: name ILIKE ? OR bio ILIKE ?)
func (w *Where) AddSame(cond string, arg interface{}) {
	w.args = append(w.args, arg)
	w.conds = append(w.conds, strings.ReplaceAll(cond, "?", placeholder(len(w.args))))
}

// SQL trả về "WHERE a AND b" hoặc "" nếu không có điều kiện
func (w *Where) SQL() string {
	if len(w.conds) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(w.conds, " AND ")
}

func (w *Where) Args() []interface{} {
	return w.args
}

// Next trả về placeholder cho arg tiếp theo (LIMIT/OFFSET) và append arg
func (w *Where) Next(arg interface{}) string {
	w.args = append(w.args, arg)
	return placeholder(len(w.args))
}

func placeholder(n int) string {
	return "$" + strconv.Itoa(n)
}
