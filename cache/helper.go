package cache

import (
	"fmt"
)

const (
	cacheImage = "%s:%s"
)

func constructKey(ownerUid string, imageName string) string {
	return fmt.Sprintf(cacheImage, ownerUid, imageName)
}
