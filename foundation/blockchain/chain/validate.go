package chain

// IsChainValid reports whether every block after genesis is linked to its
// parent, meets the difficulty, and has a hash that matches its content.
func (c *Chain) IsChainValid() bool {
	return c.Validate() == nil
}

// Validate walks the chain from block 1 and returns the error for the first
// block that fails validation. The genesis block has no parent and is not
// checked.
func (c *Chain) Validate() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for i := 1; i < len(c.blocks); i++ {
		if err := c.blocks[i].ValidateBlock(c.blocks[i-1], c.difficulty); err != nil {
			c.evHandler("chain: Validate: INVALID: %s", err)
			return err
		}
	}

	return nil
}
