package harness

import "github.com/quernlang/quern/internal/schema"

// DemoCatalog builds the small pet-shop catalog used by the bundled
// fixtures and the test suite: a Person owns Pets, and a Student is a
// kind of Person.
func DemoCatalog() (*schema.Schema, error) {
	s := schema.New()

	str := s.MustGet(schema.StdStr)
	integer := s.MustGet(schema.StdInt)
	float := s.MustGet(schema.StdFloat)
	datetime := s.MustGet(schema.StdDatetime)

	person := schema.NewConcept("app::Person")
	pet := schema.NewConcept("app::Pet")
	student := schema.NewConcept("app::Student", person)
	for _, c := range []*schema.Concept{person, pet, student} {
		if err := s.AddType(c); err != nil {
			return nil, err
		}
	}

	if _, err := s.DefinePointer(person, "app::name", str); err != nil {
		return nil, err
	}
	if _, err := s.DefinePointer(person, "app::age", integer); err != nil {
		return nil, err
	}
	owns, err := s.DefinePointer(person, "app::owns", pet)
	if err != nil {
		return nil, err
	}
	owns.Topmost().AddProperty(
		schema.NewLink("app::since", nil, owns.Topmost(), datetime))

	if _, err := s.DefinePointer(pet, "app::name", str); err != nil {
		return nil, err
	}
	if _, err := s.DefinePointer(pet, "app::weight", float); err != nil {
		return nil, err
	}
	if _, err := s.DefinePointer(student, "app::school", str); err != nil {
		return nil, err
	}

	if err := s.AddFunction(schema.NewFunction("std::count", integer)); err != nil {
		return nil, err
	}
	if err := s.AddFunction(schema.NewFunction("std::lower", str)); err != nil {
		return nil, err
	}
	return s, nil
}
