package dataset

import "github.com/okian/voyage/internal/domain/model"

// Seed returns the curated passenger records every generated dataset starts
// with. Each call returns a fresh slice.
func Seed() []model.Passenger {
	f, s := model.Float, model.String
	return []model.Passenger{
		{ID: 1, Survived: model.Died, Class: 3, Name: "Braund, Mr. Owen Harris", Sex: model.SexMale, Age: f(22), SibSp: 1, Parch: 0, Ticket: "A/5 21171", Fare: 7.25, Embarked: s("S")},
		{ID: 2, Survived: model.Survived, Class: 1, Name: "Cumings, Mrs. John Bradley (Florence Briggs Thayer)", Sex: model.SexFemale, Age: f(38), SibSp: 1, Parch: 0, Ticket: "PC 17599", Fare: 71.2833, Cabin: s("C85"), Embarked: s("C")},
		{ID: 3, Survived: model.Survived, Class: 3, Name: "Heikkinen, Miss. Laina", Sex: model.SexFemale, Age: f(26), SibSp: 0, Parch: 0, Ticket: "STON/O2. 3101282", Fare: 7.925, Embarked: s("S")},
		{ID: 4, Survived: model.Survived, Class: 1, Name: "Futrelle, Mrs. Jacques Heath (Lily May Peel)", Sex: model.SexFemale, Age: f(35), SibSp: 1, Parch: 0, Ticket: "113803", Fare: 53.1, Cabin: s("C123"), Embarked: s("S")},
		{ID: 5, Survived: model.Died, Class: 3, Name: "Allen, Mr. William Henry", Sex: model.SexMale, Age: f(35), SibSp: 0, Parch: 0, Ticket: "373450", Fare: 8.05, Embarked: s("S")},
		{ID: 6, Survived: model.Died, Class: 3, Name: "Moran, Mr. James", Sex: model.SexMale, Age: nil, SibSp: 0, Parch: 0, Ticket: "330877", Fare: 8.4583, Embarked: s("Q")},
		{ID: 7, Survived: model.Died, Class: 1, Name: "McCarthy, Mr. Timothy J", Sex: model.SexMale, Age: f(54), SibSp: 0, Parch: 0, Ticket: "17463", Fare: 51.8625, Cabin: s("E46"), Embarked: s("S")},
		{ID: 8, Survived: model.Died, Class: 3, Name: "Palsson, Master. Gosta Leonard", Sex: model.SexMale, Age: f(2), SibSp: 3, Parch: 1, Ticket: "349909", Fare: 21.075, Embarked: s("S")},
		{ID: 9, Survived: model.Survived, Class: 3, Name: "Johnson, Mrs. Oscar W (Elisabeth Vilhelmina Berg)", Sex: model.SexFemale, Age: f(27), SibSp: 0, Parch: 2, Ticket: "347742", Fare: 11.1333, Embarked: s("S")},
		{ID: 10, Survived: model.Survived, Class: 2, Name: "Nasser, Mrs. Nicholas (Adele Achem)", Sex: model.SexFemale, Age: f(14), SibSp: 1, Parch: 0, Ticket: "237736", Fare: 30.0708, Embarked: s("C")},
	}
}
