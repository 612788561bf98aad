package fmu

// writable reports whether the host may set v in the current state.
func (c *Component) writable(v *Variable) bool {
	switch v.Causality() {
	case CausalityInput:
		return true
	case CausalityParameter:
		if v.Variability() == VariabilityTunable {
			return true
		}
		return v.Variability() == VariabilityFixed &&
			(c.state == StateInstantiated || c.state == StateInitializationMode)
	}
	return false
}

func lookupAs[T Scalar](c *Component, name string) (*Variable, error) {
	v, ok := c.registry.Lookup(name)
	if !ok {
		return nil, &VariableError{Name: name, Op: "lookup", Wrapped: ErrUnknownVariable}
	}
	if v.Type() != typeOf[T]() {
		return nil, &VariableError{Name: name, Op: "access " + typeOf[T]().String(), Wrapped: ErrTypeMismatch}
	}
	return v, nil
}

func getByName[T Scalar](c *Component, name string) (T, error) {
	v, err := lookupAs[T](c, name)
	if err != nil {
		var zero T
		return zero, err
	}
	return Get[T](v)
}

func setByName[T Scalar](c *Component, name string, x T) error {
	v, err := lookupAs[T](c, name)
	if err != nil {
		return err
	}
	if !c.writable(v) {
		return &VariableError{Name: name, Op: "set", Wrapped: ErrNotWritable}
	}
	return Set(v, x)
}

// getByRef reads the variables of type T with the given value references,
// in order, as the FMI get functions do.
func getByRef[T Scalar](c *Component, vrs []uint32) ([]T, Status) {
	out := make([]T, len(vrs))
	for i, vr := range vrs {
		v, ok := c.registry.ByReference(typeOf[T](), vr)
		if !ok {
			c.Log("unknown value reference for "+typeOf[T]().String(), StatusError, LogStatusError)
			return nil, StatusError
		}
		x, err := Get[T](v)
		if err != nil {
			c.Log(err.Error(), StatusError, LogStatusError)
			return nil, StatusError
		}
		out[i] = x
	}
	return out, StatusOK
}

func setByRef[T Scalar](c *Component, vrs []uint32, values []T) Status {
	if len(vrs) != len(values) {
		c.Log("value reference and value counts differ", StatusError, LogStatusError)
		return StatusError
	}
	for i, vr := range vrs {
		v, ok := c.registry.ByReference(typeOf[T](), vr)
		if !ok {
			c.Log("unknown value reference for "+typeOf[T]().String(), StatusError, LogStatusError)
			return StatusError
		}
		if !c.writable(v) {
			c.Log("variable "+v.Name()+" is not writable", StatusError, LogStatusError)
			return StatusError
		}
		if err := Set(v, values[i]); err != nil {
			c.Log(err.Error(), StatusError, LogStatusError)
			return StatusError
		}
	}
	return StatusOK
}

func (c *Component) GetReal(name string) (float64, error)  { return getByName[float64](c, name) }
func (c *Component) GetInteger(name string) (int32, error) { return getByName[int32](c, name) }
func (c *Component) GetBoolean(name string) (bool, error)  { return getByName[bool](c, name) }
func (c *Component) GetString(name string) (string, error) { return getByName[string](c, name) }
func (c *Component) SetReal(name string, x float64) error  { return setByName(c, name, x) }
func (c *Component) SetInteger(name string, x int32) error { return setByName(c, name, x) }
func (c *Component) SetBoolean(name string, x bool) error  { return setByName(c, name, x) }
func (c *Component) SetString(name string, x string) error { return setByName(c, name, x) }

func (c *Component) GetRealVR(vrs []uint32) ([]float64, Status)   { return getByRef[float64](c, vrs) }
func (c *Component) GetIntegerVR(vrs []uint32) ([]int32, Status)  { return getByRef[int32](c, vrs) }
func (c *Component) GetBooleanVR(vrs []uint32) ([]bool, Status)   { return getByRef[bool](c, vrs) }
func (c *Component) GetStringVR(vrs []uint32) ([]string, Status)  { return getByRef[string](c, vrs) }
func (c *Component) SetRealVR(vrs []uint32, xs []float64) Status  { return setByRef(c, vrs, xs) }
func (c *Component) SetIntegerVR(vrs []uint32, xs []int32) Status { return setByRef(c, vrs, xs) }
func (c *Component) SetBooleanVR(vrs []uint32, xs []bool) Status  { return setByRef(c, vrs, xs) }
func (c *Component) SetStringVR(vrs []uint32, xs []string) Status { return setByRef(c, vrs, xs) }
