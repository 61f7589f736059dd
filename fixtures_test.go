package inject

type testEngine struct{}

type testCar struct {
	Engine *testEngine `inject:""`
}

type testTaggedCar struct {
	Engine *testEngine `inject:"optional,self,skipself"`
	Radio  string      `name:"radio"`
}
