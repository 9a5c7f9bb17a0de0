package builder_test

import (
	"fmt"

	"github.com/locvowork/employee_records/internal/repository/builder"
)

// Example_snapshotQuery shows the query used to read a stored snapshot back in order.
func Example_snapshotQuery() {
	sql, args := builder.NewSQLBuilder().
		Select("id", "full_name", "gender").
		From("employees").
		OrderBy("position ASC").
		Build()

	fmt.Println("SQL:", sql)
	fmt.Printf("Args: %v\n", args)

	// Output:
	// SQL: SELECT id, full_name, gender FROM employees ORDER BY position ASC
	// Args: []
}

// Example_filteredDelete demonstrates positional parameters in a DELETE.
func Example_filteredDelete() {
	sql, args := builder.NewSQLBuilder().
		Delete("employees").
		Where("id = ?", 42).
		Build()

	fmt.Println("SQL:", sql)
	fmt.Printf("Args: %v\n", args)

	// Output:
	// SQL: DELETE FROM employees WHERE id = $1
	// Args: [42]
}
