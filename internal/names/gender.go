package names

type Gender struct {
	Key   string
	Label string
}

// Genders lists the selectable values in display order. The empty key means
// "no preference".
var Genders = []Gender{
	{Key: "", Label: "Select Gender"},
	{Key: "boy", Label: "Boy"},
	{Key: "girl", Label: "Girl"},
	{Key: "unisex", Label: "Unisex"},
}

func GetGender(key string) (Gender, bool) {
	for _, g := range Genders {
		if g.Key == key {
			return g, true
		}
	}
	return Gender{}, false
}
