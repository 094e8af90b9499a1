// Package areas is the static district → area reference table used to
// populate the area selector and to validate submitted patient records.
package areas

import "slices"

var byDistrict = map[string][]string{
	"Dhaka": {
		"Adabor", "Badda", "Banasree", "Bangshal", "Biman Bandar", "Bosila", "Cantonment",
		"Chawkbazar", "Demra", "Dhanmondi", "Gendaria", "Gulshan", "Hazaribagh",
		"Jatrabari", "Kadamtali", "Kafrul", "Kalabagan", "Kamrangirchar", "Keraniganj",
		"Khilgaon", "Khilkhet", "Lalbagh", "Mirpur", "Mohammadpur", "Motijheel",
		"New Market", "Pallabi", "Paltan", "Ramna", "Rampura", "Sabujbagh",
		"Shahbagh", "Sher-e-Bangla Nagar", "Shyampur", "Sutrapur", "Tejgaon",
	},
	"Chittagong": {
		"Agrabad", "Bakolia", "Bayezid Bostami", "Chandgaon", "Chawkbazar",
		"Double Mooring", "EPZ", "Firozpur", "Golamari", "Halishahar",
		"Jalalabad", "Jubilee Road", "Karnaphuli", "Khulshi", "Lal Khan Bazar",
		"Lalkhan Bazar", "Madarbari", "Muradpur", "Nasirabad", "New Market",
		"Oxygen", "Pahartali", "Panchlaish", "Patenga", "Rampura TSO",
		"Raozan", "Sholoshahar", "Sikder Medical", "Sitakunda",
	},
	"Khulna": {
		"Alamdanga", "Bagherpara", "Chalna", "Dacope", "Digholia", "Dumuria",
		"Harintana", "Khalishpur", "Khanjahanpur", "Khulna Sadar", "Labanchora",
		"Madaripur", "Paikgacha", "Phultala", "Rupsha", "Sonadanga", "Terokhada",
	},
	"Rajshahi": {
		"Bagha", "Bagmara", "Charghat", "Durgapur", "Godagari", "Mohanpur",
		"Paba", "Putia", "Rajshahi Sadar", "Shah Mokdum", "Tanore",
	},
	"Barisal": {
		"Agailjhara", "Babuganj", "Bakerganj", "Banaripara", "Barisal Sadar",
		"Gournadi", "Hizla", "Mehendiganj", "Muladi", "Wazirpur",
	},
	"Sylhet": {
		"Balaganj", "Beanibazar", "Bishwanath", "Companiganj", "Dakshin Surma",
		"Fenchuganj", "Golapganj", "Gowainghat", "Jaintiapur", "Kanaighat",
		"Osmani Nagar", "Sylhet Sadar", "Zakiganj",
	},
	"Rangpur": {
		"Badarganj", "Gangachara", "Kaunia", "Mithapukur", "Pirgacha",
		"Pirganj", "Rangpur Sadar", "Taraganj",
	},
	"Mymensingh": {
		"Bhaluka", "Dhobaura", "Fulbaria", "Gaffargaon", "Gauripur",
		"Haluaghat", "Ishwarganj", "Muktagacha", "Mymensingh Sadar",
		"Nandail", "Phulpur", "Trishal",
	},
}

// districtOrder is the display order of the district selector.
var districtOrder = []string{
	"Dhaka", "Chittagong", "Khulna", "Rajshahi", "Barisal", "Sylhet", "Rangpur", "Mymensingh",
}

// Districts returns the known districts in display order.
func Districts() []string {
	return slices.Clone(districtOrder)
}

// AreasFor returns the ordered areas of district. An unknown or empty
// district yields an empty (non-nil) slice, which the selector renders as
// disabled. The returned slice is a copy.
func AreasFor(district string) []string {
	list, ok := byDistrict[district]
	if !ok {
		return []string{}
	}
	return slices.Clone(list)
}

// Contains reports whether area belongs to district.
func Contains(district, area string) bool {
	return slices.Contains(byDistrict[district], area)
}
