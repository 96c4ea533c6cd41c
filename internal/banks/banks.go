// Package banks holds the static lookup table of Vietnamese banks offered by
// the financial section of the form.
package banks

// Bank is one entry of the lookup table.
type Bank struct {
	Code      string `json:"code"`
	Name      string `json:"name"`
	ShortName string `json:"shortName"`
}

var table = []Bank{
	{
		Code:      "BIDV",
		Name:      "Ngân hàng Thương mại cổ phần Đầu tư và Phát triển Việt Nam",
		ShortName: "BIDV",
	},
	{
		Code:      "VCB",
		Name:      "Ngân hàng Thương mại cổ phần Ngoại thương Việt Nam",
		ShortName: "Vietcombank",
	},
	{
		Code:      "VTB",
		Name:      "Ngân hàng Thương mại cổ phần Công thương Việt Nam",
		ShortName: "VietinBank",
	},
	{
		Code:      "ACB",
		Name:      "Ngân hàng Thương mại cổ phần Á Châu",
		ShortName: "ACB",
	},
	{
		Code:      "TCB",
		Name:      "Ngân hàng Thương mại cổ phần Kỹ thương Việt Nam",
		ShortName: "Techcombank",
	},
	{
		Code:      "MB",
		Name:      "Ngân hàng Thương mại cổ phần Quân đội",
		ShortName: "MB Bank",
	},
	{
		Code:      "TPB",
		Name:      "Ngân hàng Thương mại cổ phần Tiên Phong",
		ShortName: "TPBank",
	},
}

// All returns the full table in display order.
func All() []Bank {
	out := make([]Bank, len(table))
	copy(out, table)
	return out
}

// ByCode looks up a bank by its code.
func ByCode(code string) (Bank, bool) {
	for _, b := range table {
		if b.Code == code {
			return b, true
		}
	}
	return Bank{}, false
}

// ValidCode reports whether code is one of the known bank codes.
func ValidCode(code string) bool {
	_, ok := ByCode(code)
	return ok
}
