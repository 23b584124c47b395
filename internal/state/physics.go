package state

// ConfigurePhysics replaces the physics constants.
var ConfigurePhysics = NewAction[Physics]("[physics] configure")

// RegisterPhysics installs the physics reducers into reg.
func RegisterPhysics(reg *Registry) {
	ReduceHere(reg, PhysicsPath).
		On(When(ConfigurePhysics, func(p *Physics, next Physics) error {
			*p = next
			return nil
		}))
}
