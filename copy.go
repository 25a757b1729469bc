package pdst

// copy duplicates a local file as copy_<name>. An existing duplicate is
// left untouched.
func (o *Orchestrator) copy(op Copy) Outcome {
	name, out := o.pickLocalFile("copy", op.FileName)
	if out != nil {
		return *out
	}

	o.step("copy", "CheckDuplicate", name)
	src := o.path(name)
	dst := o.path(copyName(name))
	exists, err := o.local.Exists(dst)
	if err != nil {
		return ioFailure("check "+dst, err)
	}
	if exists {
		return advisory("copy already exists: %s", copyName(name))
	}

	o.step("copy", "Duplicate", name)
	if err := o.local.Copy(src, dst); err != nil {
		return ioFailure("copy "+name, err)
	}
	return completed("created %s", copyName(name))
}
