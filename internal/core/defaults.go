package core

// DefaultCategories is seeded on first run, only while no category exists.
var DefaultCategories = []Category{
	{Name: "Salário", Kind: KindIncome},
	{Name: "Investimentos", Kind: KindIncome},
	{Name: "Outros", Kind: KindIncome},
	{Name: "Alimentação", Kind: KindExpense},
	{Name: "Moradia", Kind: KindExpense},
	{Name: "Transporte", Kind: KindExpense},
	{Name: "Saúde", Kind: KindExpense},
	{Name: "Educação", Kind: KindExpense},
	{Name: "Lazer", Kind: KindExpense},
	{Name: "Outros", Kind: KindExpense},
}
